package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloo-solutions/simsearch/internal/telemetry"
)

// SuggestionRebuilder applies logged queries whose suggestion update never landed.
type SuggestionRebuilder interface {
	Rebuild(ctx context.Context) (int, error)
}

// SuggestionReconciler keeps suggestion usage counts in line with the query
// log, repairing increments lost to failed or deferred updates.
type SuggestionReconciler struct {
	rebuilder SuggestionRebuilder
}

// NewSuggestionReconciler creates a new SuggestionReconciler instance
func NewSuggestionReconciler(rebuilder SuggestionRebuilder) *SuggestionReconciler {
	return &SuggestionReconciler{rebuilder: rebuilder}
}

// ProcessJobs implements the JobProcessor interface
func (r *SuggestionReconciler) ProcessJobs(ctx context.Context) error {
	applied, err := r.rebuilder.Rebuild(ctx)
	if err != nil {
		telemetry.CaptureError(ctx, err)
		return fmt.Errorf("failed to reconcile suggestions: %w", err)
	}
	if applied > 0 {
		slog.Info("suggestions reconciled", "applied", applied)
	}
	return nil
}
