package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cloo-solutions/simsearch/internal/database"
	"github.com/cloo-solutions/simsearch/internal/domain"
)

// SQLiteSuggestionRepository stores the typeahead suggestion index in SQLite.
type SQLiteSuggestionRepository struct {
	db sqlDBTX
}

func NewSQLiteSuggestionRepository(db *sql.DB) *SQLiteSuggestionRepository {
	return &SQLiteSuggestionRepository{db: db}
}

func NewSQLiteSuggestionRepositoryWithTx(tx *sql.Tx) *SQLiteSuggestionRepository {
	return &SQLiteSuggestionRepository{db: tx}
}

func (r *SQLiteSuggestionRepository) Touch(ctx context.Context, label string, payload map[string]any) error {
	payloadJSON, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO search_suggestions (label, payload, usage_count, updated_at)
		 VALUES (?, ?, 1, ?)
		 ON CONFLICT (label) DO UPDATE
		 SET usage_count = search_suggestions.usage_count + 1,
		     payload = COALESCE(excluded.payload, search_suggestions.payload),
		     updated_at = excluded.updated_at`,
		label, nullableBytes(payloadJSON), formatSQLiteTime(time.Now()),
	)
	return err
}

func (r *SQLiteSuggestionRepository) ListByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT label FROM search_suggestions
		 WHERE `+database.FoldFunction+`(label) LIKE `+database.FoldFunction+`(?) ESCAPE '\'
		 ORDER BY label
		 LIMIT ?`,
		prefixPattern(prefix), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (r *SQLiteSuggestionRepository) GetByLabel(ctx context.Context, label string) (*domain.Suggestion, error) {
	var s domain.Suggestion
	var payloadJSON sql.NullString
	var updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT label, payload, usage_count, updated_at FROM search_suggestions WHERE label = ?`,
		label,
	).Scan(&s.Label, &payloadJSON, &s.UsageCount, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSuggestionNotFound
		}
		return nil, err
	}
	if payloadJSON.Valid {
		if s.Payload, err = unmarshalPayload([]byte(payloadJSON.String)); err != nil {
			return nil, err
		}
	}
	if s.UpdatedAt, err = parseSQLiteTime(updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// nullableBytes stores JSON as text, or NULL when empty.
func nullableBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
