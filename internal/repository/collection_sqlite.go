package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/service"
)

// SQLiteCollection reads one module's records from SQLite. It has no
// weighted ranking, so adapters fall back to substring matching.
type SQLiteCollection struct {
	db  sqlDBTX
	src source
}

func NewSQLiteCollection(db *sql.DB, module domain.Module) (*SQLiteCollection, error) {
	src, ok := sources()[module]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownModule, module)
	}
	return &SQLiteCollection{db: db, src: src}, nil
}

// NewSQLiteCollections returns a collection for every searchable module.
func NewSQLiteCollections(db *sql.DB) map[domain.Module]service.RecordCollection {
	out := make(map[domain.Module]service.RecordCollection, len(domain.Modules()))
	for _, m := range domain.Modules() {
		c, _ := NewSQLiteCollection(db, m)
		out[m] = c
	}
	return out
}

func (c *SQLiteCollection) SupportsRanking() bool { return false }

func (c *SQLiteCollection) Match(ctx context.Context, q service.MatchQuery) ([]service.Candidate, error) {
	query, args, err := buildMatchQuery(dialectSQLite, c.src, q, "")
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []service.Candidate
	for rows.Next() {
		var id int64
		values := make([]string, len(c.src.columns))
		dest := make([]any, 0, len(values)+1)
		dest = append(dest, &id)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, service.Candidate{Record: recordFromRow(c.src, id, values)})
	}
	return out, rows.Err()
}
