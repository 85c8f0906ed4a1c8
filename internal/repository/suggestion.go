package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SuggestionRepository stores the typeahead suggestion index in Postgres.
type SuggestionRepository struct {
	db dbtx
}

func NewSuggestionRepository(pool *pgxpool.Pool) *SuggestionRepository {
	return &SuggestionRepository{db: pool}
}

func NewSuggestionRepositoryWithTx(tx pgx.Tx) *SuggestionRepository {
	return &SuggestionRepository{db: tx}
}

// Touch inserts the label or increments its usage in a single statement.
func (r *SuggestionRepository) Touch(ctx context.Context, label string, payload map[string]any) error {
	payloadJSON, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO search_suggestions (label, payload, usage_count, updated_at)
		 VALUES ($1, $2, 1, $3)
		 ON CONFLICT (label) DO UPDATE
		 SET usage_count = search_suggestions.usage_count + 1,
		     payload = COALESCE(EXCLUDED.payload, search_suggestions.payload),
		     updated_at = EXCLUDED.updated_at`,
		label, payloadJSON, time.Now().UTC(),
	)
	return err
}

func (r *SuggestionRepository) ListByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT label FROM search_suggestions
		 WHERE label ILIKE $1 ESCAPE '\'
		 ORDER BY label
		 LIMIT $2`,
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

func (r *SuggestionRepository) GetByLabel(ctx context.Context, label string) (*domain.Suggestion, error) {
	var s domain.Suggestion
	var payloadJSON []byte
	err := r.db.QueryRow(ctx,
		`SELECT label, payload, usage_count, updated_at FROM search_suggestions WHERE label = $1`,
		label,
	).Scan(&s.Label, &payloadJSON, &s.UsageCount, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSuggestionNotFound
		}
		return nil, err
	}
	if s.Payload, err = unmarshalPayload(payloadJSON); err != nil {
		return nil, err
	}
	return &s, nil
}
