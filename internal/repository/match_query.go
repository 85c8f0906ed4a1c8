package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloo-solutions/simsearch/internal/database"
	"github.com/cloo-solutions/simsearch/internal/service"
)

type dialect int

const (
	dialectPostgres dialect = iota
	dialectSQLite
)

const likeEscape = `ESCAPE '\'`

var errRankingUnsupported = errors.New("ranked matching is not supported by this store")

// argList collects bind arguments and renders dialect placeholders.
type argList struct {
	d    dialect
	args []any
}

func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	if a.d == dialectPostgres {
		return "$" + strconv.Itoa(len(a.args))
	}
	return "?"
}

func textExpr(expr string) string {
	return "COALESCE(CAST(" + expr + " AS TEXT), '')"
}

func weightClass(w service.Weight) string {
	switch w {
	case service.WeightA, service.WeightB, service.WeightC:
		return string(w)
	default:
		return "D"
	}
}

// buildMatchQuery renders a MatchQuery against a source. Ranked queries select
// a trailing rank column.
func buildMatchQuery(d dialect, src source, q service.MatchQuery, textConfig string) (string, []any, error) {
	args := &argList{d: d}

	selects := make([]string, 0, len(src.columns)+1)
	selects = append(selects, src.idExpr+" AS id")
	for i, c := range src.columns {
		selects = append(selects, fmt.Sprintf("%s AS c%d", textExpr(c.expr), i))
	}

	var conds []string
	if src.where != "" {
		conds = append(conds, src.where)
	}

	switch {
	case q.Scope.IsNone():
		conds = append(conds, "1 = 0")
	case !q.Scope.IsAll():
		ors := make([]string, 0, len(q.Scope.Conditions()))
		for _, c := range q.Scope.Conditions() {
			expr, err := src.mustExpr(c.Field)
			if err != nil {
				return "", nil, err
			}
			ors = append(ors, fmt.Sprintf("%s = %s", expr, args.add(c.Value)))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	for _, f := range q.Filters {
		expr, err := src.mustExpr(f.Field)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, fmt.Sprintf("%s = %s", textExpr(expr), args.add(f.Value)))
	}

	if len(q.Fields) == 0 {
		return "", nil, fmt.Errorf("%s: no search fields", src.module)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = service.DefaultAdapterLimit
	}

	switch q.Strategy {
	case service.StrategyRanked:
		if d != dialectPostgres {
			return "", nil, errRankingUnsupported
		}
		// bound as text so pgx needs no regconfig codec
		cfg := args.add(textConfig) + "::text"
		text := args.add(q.Text)

		parts := make([]string, 0, len(q.Fields))
		for _, f := range q.Fields {
			expr, err := src.mustExpr(f.Field)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, fmt.Sprintf("setweight(to_tsvector(%s::regconfig, %s), '%s')", cfg, textExpr(expr), weightClass(f.Weight)))
		}
		rank := fmt.Sprintf("ts_rank(%s, plainto_tsquery(%s::regconfig, %s))::float8",
			strings.Join(parts, " || "), cfg, text)

		sql := fmt.Sprintf(
			`SELECT * FROM (
			 SELECT %s, %s AS rank
			 FROM %s
			 %s
			) ranked
			 WHERE rank >= %s
			 ORDER BY rank DESC, id ASC
			 LIMIT %s`,
			strings.Join(selects, ", "), rank, src.from, whereClause(conds),
			args.add(q.MinRank), args.add(limit),
		)
		return sql, args.args, nil

	case service.StrategyFallback:
		ors := make([]string, 0, len(q.Fields))
		for _, f := range q.Fields {
			expr, err := src.mustExpr(f.Field)
			if err != nil {
				return "", nil, err
			}
			pattern := args.add(containsPattern(q.Text))
			if d == dialectPostgres {
				ors = append(ors, fmt.Sprintf("%s ILIKE %s %s", textExpr(expr), pattern, likeEscape))
			} else {
				ors = append(ors, fmt.Sprintf("%s(%s) LIKE %s(%s) %s",
					database.FoldFunction, textExpr(expr), database.FoldFunction, pattern, likeEscape))
			}
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")

		sql := fmt.Sprintf(
			`SELECT %s
			 FROM %s
			 %s
			 ORDER BY id ASC
			 LIMIT %s`,
			strings.Join(selects, ", "), src.from, whereClause(conds), args.add(limit),
		)
		return sql, args.args, nil

	default:
		return "", nil, fmt.Errorf("%s: unknown strategy %q", src.module, q.Strategy)
	}
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}

// recordFromRow assembles a Record from scanned column values in source order.
func recordFromRow(src source, id int64, values []string) service.Record {
	fields := make(map[string]string, len(src.columns))
	for i, c := range src.columns {
		fields[c.name] = values[i]
	}
	return service.Record{ID: id, Fields: fields}
}
