package repository

import (
	"context"
	"database/sql"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/pagination"
	"github.com/cloo-solutions/simsearch/internal/service"
)

// SQLiteQueryLogRepository stores the search query log in SQLite.
type SQLiteQueryLogRepository struct {
	db sqlDBTX
}

func NewSQLiteQueryLogRepository(db *sql.DB) *SQLiteQueryLogRepository {
	return &SQLiteQueryLogRepository{db: db}
}

func NewSQLiteQueryLogRepositoryWithTx(tx *sql.Tx) *SQLiteQueryLogRepository {
	return &SQLiteQueryLogRepository{db: tx}
}

func (r *SQLiteQueryLogRepository) CreateQueryLog(ctx context.Context, l *domain.QueryLog) error {
	filtersJSON, err := marshalFilters(l.Filters)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO search_query_logs (id, principal_id, query_text, filters, result_count, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.PrincipalID, l.QueryText, string(filtersJSON), l.ResultCount, l.DurationMs, formatSQLiteTime(l.CreatedAt),
	)
	return err
}

func (r *SQLiteQueryLogRepository) RecentQueries(ctx context.Context, principalID int64, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT query_text FROM search_query_logs
		 WHERE principal_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
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

func (r *SQLiteQueryLogRepository) ListByPrincipalWithCursor(ctx context.Context, principalID int64, cursor *pagination.Cursor, limit int) (*service.QueryLogPageResult, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, principal_id, query_text, filters, result_count, duration_ms, created_at
			 FROM search_query_logs
			 WHERE principal_id = ? AND (created_at, id) < (?, ?)
			 ORDER BY created_at DESC, id DESC
			 LIMIT ?`,
			principalID, formatSQLiteTime(cursor.Timestamp), cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, principal_id, query_text, filters, result_count, duration_ms, created_at
			 FROM search_query_logs
			 WHERE principal_id = ?
			 ORDER BY created_at DESC, id DESC
			 LIMIT ?`,
			principalID, limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	items, err := scanSQLiteQueryLogs(rows)
	if err != nil {
		return nil, err
	}
	return pageOf(items, limit), nil
}

func (r *SQLiteQueryLogRepository) ClaimSuggestion(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE search_query_logs SET suggestion_applied = 1
		 WHERE id = ? AND suggestion_applied = 0`,
		id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SQLiteQueryLogRepository) ListPendingSuggestions(ctx context.Context, limit int) ([]*domain.QueryLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal_id, query_text, filters, result_count, duration_ms, created_at
		 FROM search_query_logs
		 WHERE suggestion_applied = 0
		 ORDER BY created_at, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return scanSQLiteQueryLogs(rows)
}

func scanSQLiteQueryLogs(rows *sql.Rows) ([]*domain.QueryLog, error) {
	defer rows.Close()

	items := []*domain.QueryLog{}
	for rows.Next() {
		var l domain.QueryLog
		var filtersJSON, createdAt string
		if err := rows.Scan(&l.ID, &l.PrincipalID, &l.QueryText, &filtersJSON, &l.ResultCount, &l.DurationMs, &createdAt); err != nil {
			return nil, err
		}
		var err error
		if l.Filters, err = unmarshalFilters([]byte(filtersJSON)); err != nil {
			return nil, err
		}
		if l.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
			return nil, err
		}
		items = append(items, &l)
	}
	return items, rows.Err()
}
