package repository

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTextSearchConfig is the Postgres text search configuration used for ranking.
const DefaultTextSearchConfig = "english"

// PostgresCollection reads one module's records from Postgres and supports
// weighted full-text ranking.
type PostgresCollection struct {
	db         dbtx
	src        source
	textConfig string
}

func NewPostgresCollection(pool *pgxpool.Pool, module domain.Module, textConfig string) (*PostgresCollection, error) {
	return newPostgresCollection(pool, module, textConfig)
}

func NewPostgresCollectionWithTx(tx pgx.Tx, module domain.Module, textConfig string) (*PostgresCollection, error) {
	return newPostgresCollection(tx, module, textConfig)
}

func newPostgresCollection(db dbtx, module domain.Module, textConfig string) (*PostgresCollection, error) {
	src, ok := sources()[module]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownModule, module)
	}
	if textConfig == "" {
		textConfig = DefaultTextSearchConfig
	}
	return &PostgresCollection{db: db, src: src, textConfig: textConfig}, nil
}

// NewPostgresCollections returns a collection for every searchable module.
func NewPostgresCollections(pool *pgxpool.Pool, textConfig string) map[domain.Module]service.RecordCollection {
	out := make(map[domain.Module]service.RecordCollection, len(domain.Modules()))
	for _, m := range domain.Modules() {
		c, _ := newPostgresCollection(pool, m, textConfig)
		out[m] = c
	}
	return out
}

func (c *PostgresCollection) SupportsRanking() bool { return true }

func (c *PostgresCollection) Match(ctx context.Context, q service.MatchQuery) ([]service.Candidate, error) {
	query, args, err := buildMatchQuery(dialectPostgres, c.src, q, c.textConfig)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranked := q.Strategy == service.StrategyRanked
	var out []service.Candidate
	for rows.Next() {
		var id int64
		var rank float64
		values := make([]string, len(c.src.columns))
		dest := make([]any, 0, len(values)+2)
		dest = append(dest, &id)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if ranked {
			dest = append(dest, &rank)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		cand := service.Candidate{Record: recordFromRow(c.src, id, values)}
		if ranked {
			score := rank
			cand.Score = &score
		}
		out = append(out, cand)
	}
	return out, rows.Err()
}
