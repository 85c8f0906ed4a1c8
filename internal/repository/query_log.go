package repository

import (
	"context"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/pagination"
	"github.com/cloo-solutions/simsearch/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryLogRepository stores the append-only search query log in Postgres.
type QueryLogRepository struct {
	db dbtx
}

func NewQueryLogRepository(pool *pgxpool.Pool) *QueryLogRepository {
	return &QueryLogRepository{db: pool}
}

func NewQueryLogRepositoryWithTx(tx pgx.Tx) *QueryLogRepository {
	return &QueryLogRepository{db: tx}
}

func (r *QueryLogRepository) CreateQueryLog(ctx context.Context, l *domain.QueryLog) error {
	filtersJSON, err := marshalFilters(l.Filters)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO search_query_logs (id, principal_id, query_text, filters, result_count, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.PrincipalID, l.QueryText, filtersJSON, l.ResultCount, l.DurationMs, l.CreatedAt,
	)
	return err
}

func (r *QueryLogRepository) RecentQueries(ctx context.Context, principalID int64, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT query_text FROM search_query_logs
		 WHERE principal_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		principalID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	queries := []string{}
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

func (r *QueryLogRepository) ListByPrincipalWithCursor(ctx context.Context, principalID int64, cursor *pagination.Cursor, limit int) (*service.QueryLogPageResult, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, principal_id, query_text, filters, result_count, duration_ms, created_at
			 FROM search_query_logs
			 WHERE principal_id = $1 AND (created_at, id) < ($2, $3)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $4`,
			principalID, cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, principal_id, query_text, filters, result_count, duration_ms, created_at
			 FROM search_query_logs
			 WHERE principal_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			principalID, limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	items, err := scanQueryLogs(rows)
	if err != nil {
		return nil, err
	}
	return pageOf(items, limit), nil
}

// ClaimSuggestion flips suggestion_applied; only one caller can win a row.
func (r *QueryLogRepository) ClaimSuggestion(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE search_query_logs SET suggestion_applied = TRUE
		 WHERE id = $1 AND NOT suggestion_applied`,
		id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *QueryLogRepository) ListPendingSuggestions(ctx context.Context, limit int) ([]*domain.QueryLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, principal_id, query_text, filters, result_count, duration_ms, created_at
		 FROM search_query_logs
		 WHERE NOT suggestion_applied
		 ORDER BY created_at, id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return scanQueryLogs(rows)
}

func scanQueryLogs(rows pgx.Rows) ([]*domain.QueryLog, error) {
	defer rows.Close()

	items := []*domain.QueryLog{}
	for rows.Next() {
		var l domain.QueryLog
		var filtersJSON []byte
		if err := rows.Scan(&l.ID, &l.PrincipalID, &l.QueryText, &filtersJSON, &l.ResultCount, &l.DurationMs, &l.CreatedAt); err != nil {
			return nil, err
		}
		var err error
		if l.Filters, err = unmarshalFilters(filtersJSON); err != nil {
			return nil, err
		}
		items = append(items, &l)
	}
	return items, rows.Err()
}

// pageOf trims a limit+1 result set and computes the next cursor.
func pageOf(items []*domain.QueryLog, limit int) *service.QueryLogPageResult {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return &service.QueryLogPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
}
