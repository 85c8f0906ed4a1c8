package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/pagination"
	"github.com/cloo-solutions/simsearch/internal/telemetry"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// QueryLogPageResult is one keyset page of a principal's query log.
type QueryLogPageResult struct {
	Items      []*domain.QueryLog
	NextCursor string
	HasMore    bool
}

// QueryLogRepository persists the append-only query log.
type QueryLogRepository interface {
	CreateQueryLog(ctx context.Context, l *domain.QueryLog) error
	// RecentQueries returns the principal's query strings, newest first.
	RecentQueries(ctx context.Context, principalID int64, limit int) ([]string, error)
	ListByPrincipalWithCursor(ctx context.Context, principalID int64, cursor *pagination.Cursor, limit int) (*QueryLogPageResult, error)
	// ClaimSuggestion marks the row's suggestion update as applied. It
	// reports false when the row was already claimed.
	ClaimSuggestion(ctx context.Context, id string) (bool, error)
	// ListPendingSuggestions returns unclaimed rows, oldest first.
	ListPendingSuggestions(ctx context.Context, limit int) ([]*domain.QueryLog, error)
}

// SuggestionRepository persists the typeahead suggestion index.
type SuggestionRepository interface {
	// Touch inserts label with usage 1 or increments it in one statement.
	Touch(ctx context.Context, label string, payload map[string]any) error
	// ListByPrefix returns labels with a case-insensitive prefix, alphabetically.
	ListByPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
	GetByLabel(ctx context.Context, label string) (*domain.Suggestion, error)
}

// QueryRecorder writes a query log row and then updates the suggestion index.
// The two steps are explicit; the suggestion step may run on a worker pool.
// Each row counts toward its suggestion exactly once: the increment is paired
// with a claim on the row, so a late async update and a concurrent Rebuild
// never both apply it.
type QueryRecorder struct {
	logs        QueryLogRepository
	suggestions SuggestionRepository
	pool        *ants.Pool
	tx          TxRunner
	logger      *slog.Logger
	newID       func() string
	wg          sync.WaitGroup
}

// RecorderOption configures a QueryRecorder.
type RecorderOption func(*QueryRecorder) error

// WithAsyncSuggestions defers suggestion updates to a pool of the given size.
func WithAsyncSuggestions(workers int) RecorderOption {
	return func(r *QueryRecorder) error {
		if workers <= 0 {
			return fmt.Errorf("suggestion workers must be positive, got %d", workers)
		}
		pool, err := ants.NewPool(workers)
		if err != nil {
			return fmt.Errorf("failed to create suggestion pool: %w", err)
		}
		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithRecorderLogger sets the logger used for deferred failures.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *QueryRecorder) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// WithRecorderTx pairs each claim with its increment in one transaction.
// Without it a failed increment leaves its row claimed and uncounted.
func WithRecorderTx(tx TxRunner) RecorderOption {
	return func(r *QueryRecorder) error {
		r.tx = tx
		return nil
	}
}

// NewQueryRecorder creates a QueryRecorder.
func NewQueryRecorder(logs QueryLogRepository, suggestions SuggestionRepository, opts ...RecorderOption) (*QueryRecorder, error) {
	r := &QueryRecorder{
		logs:        logs,
		suggestions: suggestions,
		logger:      slog.Default(),
		newID:       newQueryLogID,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Release()
			return nil, err
		}
	}
	return r, nil
}

// Record runs the two-step pipeline for one executed search. A failed
// suggestion update is logged and left for Rebuild; it never fails the search.
func (r *QueryRecorder) Record(ctx context.Context, principalID int64, query string, filters map[string]string, resultCount int, duration time.Duration) (*domain.QueryLog, error) {
	entry := domain.NewQueryLog(r.newID(), principalID, query, filters, resultCount, duration.Milliseconds(), time.Now().UTC())
	if err := domain.ValidateQueryLog(entry); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid query log", err)
	}

	if err := r.logs.CreateQueryLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("create query log: %w", err)
	}

	if err := r.touch(ctx, entry); err != nil {
		r.logger.Warn("suggestion update failed", "log_id", entry.ID, "label", entry.QueryText, "error", err)
		telemetry.CaptureError(ctx, err)
	}
	return entry, nil
}

func (r *QueryRecorder) touch(ctx context.Context, entry *domain.QueryLog) error {
	if r.pool == nil {
		_, err := r.apply(ctx, entry)
		return err
	}

	detached := context.WithoutCancel(ctx)
	r.wg.Add(1)
	err := r.pool.Submit(func() {
		defer r.wg.Done()
		if _, err := r.apply(detached, entry); err != nil {
			r.logger.Error("deferred suggestion update failed", "log_id", entry.ID, "label", entry.QueryText, "error", err)
			telemetry.CaptureError(detached, err)
		}
	})
	if err != nil {
		r.wg.Done()
		r.logger.Warn("suggestion pool rejected task, updating inline", "error", err)
		_, err := r.apply(ctx, entry)
		return err
	}
	return nil
}

// apply claims entry and increments its label. It reports false when another
// caller already applied the row.
func (r *QueryRecorder) apply(ctx context.Context, entry *domain.QueryLog) (bool, error) {
	if r.tx == nil {
		return applySuggestion(ctx, r.logs, r.suggestions, entry)
	}

	var applied bool
	err := r.tx.WithTx(ctx, func(repos TxRepositories) error {
		ok, err := applySuggestion(ctx, repos.QueryLogs(), repos.Suggestions(), entry)
		applied = ok
		return err
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func applySuggestion(ctx context.Context, logs QueryLogRepository, suggestions SuggestionRepository, entry *domain.QueryLog) (bool, error) {
	claimed, err := logs.ClaimSuggestion(ctx, entry.ID)
	if err != nil {
		return false, fmt.Errorf("claim query log: %w", err)
	}
	if !claimed {
		return false, nil
	}
	if err := suggestions.Touch(ctx, entry.QueryText, nil); err != nil {
		return false, fmt.Errorf("touch suggestion: %w", err)
	}
	return true, nil
}

// Flush waits for deferred suggestion updates.
func (r *QueryRecorder) Flush() {
	r.wg.Wait()
}

// Release flushes pending updates and frees the worker pool.
// The recorder should not be used after calling Release.
func (r *QueryRecorder) Release() {
	r.Flush()
	if r.pool != nil {
		r.pool.Release()
		r.pool = nil
	}
}

const rebuildBatchSize = 500

// Rebuild applies every logged query whose suggestion update never landed
// and returns how many it applied. Rows already counted are skipped, so
// running it alongside live traffic or another Rebuild never double counts.
func (r *QueryRecorder) Rebuild(ctx context.Context) (int, error) {
	applied := 0
	for {
		pending, err := r.logs.ListPendingSuggestions(ctx, rebuildBatchSize)
		if err != nil {
			return applied, fmt.Errorf("list pending suggestions: %w", err)
		}
		for _, entry := range pending {
			ok, err := r.apply(ctx, entry)
			if err != nil {
				return applied, err
			}
			if ok {
				applied++
			}
		}
		if len(pending) < rebuildBatchSize {
			return applied, nil
		}
	}
}

// newQueryLogID returns a time-ordered id so equal timestamps still sort by
// insertion.
func newQueryLogID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
