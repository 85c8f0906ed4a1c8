package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/pagination"
	"github.com/cloo-solutions/simsearch/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// suggestionPrefixRunes bounds the prefix used for inline suggestions.
const suggestionPrefixRunes = 32

// CollectionBinding pairs an entity with the collaborator collection backing it.
type CollectionBinding struct {
	Entity     Entity
	Collection RecordCollection
}

// SearchServiceConfig controls search behaviour.
type SearchServiceConfig struct {
	MaxResults      int
	AdapterLimit    int
	HistoryLimit    int
	SuggestionLimit int
	SnippetRadius   int
	// ForceFallback selects substring matching even on ranking-capable stores.
	ForceFallback bool
	// Parallel runs adapters concurrently. Result order is unaffected.
	Parallel bool
	// IsolateFailures skips a failing adapter instead of failing the request.
	IsolateFailures bool
}

// DefaultSearchServiceConfig returns the default service configuration.
func DefaultSearchServiceConfig() SearchServiceConfig {
	return SearchServiceConfig{
		MaxResults:      DefaultMaxResults,
		AdapterLimit:    DefaultAdapterLimit,
		HistoryLimit:    10,
		SuggestionLimit: 8,
		SnippetRadius:   DefaultSnippetRadius,
		Parallel:        true,
	}
}

// SearchResponse is the result of one search invocation.
type SearchResponse struct {
	Results     []domain.SearchResult
	Count       int
	DurationMs  int64
	History     []string
	Suggestions []string
}

// SearchService is the entry point for federated search.
type SearchService struct {
	adapters    []*EntityAdapter
	aggregator  *Aggregator
	recorder    *QueryRecorder
	logs        QueryLogRepository
	suggestions SuggestionRepository
	cfg         SearchServiceConfig
}

// NewSearchService creates a SearchService with the default configuration.
func NewSearchService(
	bindings []CollectionBinding,
	recorder *QueryRecorder,
	logs QueryLogRepository,
	suggestions SuggestionRepository,
	links Permalinker,
) *SearchService {
	return NewSearchServiceWithConfig(bindings, recorder, logs, suggestions, links, DefaultSearchServiceConfig())
}

// NewSearchServiceWithConfig creates a SearchService with explicit configuration.
// Adapters are invoked, and ties broken, in bindings order.
func NewSearchServiceWithConfig(
	bindings []CollectionBinding,
	recorder *QueryRecorder,
	logs QueryLogRepository,
	suggestions SuggestionRepository,
	links Permalinker,
	cfg SearchServiceConfig,
) *SearchService {
	defaults := DefaultSearchServiceConfig()
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaults.MaxResults
	}
	if cfg.AdapterLimit <= 0 {
		cfg.AdapterLimit = defaults.AdapterLimit
	}
	// an adapter capped below the global limit would starve the aggregator
	if cfg.AdapterLimit < cfg.MaxResults {
		cfg.AdapterLimit = cfg.MaxResults
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaults.HistoryLimit
	}
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = defaults.SuggestionLimit
	}

	adapters := make([]*EntityAdapter, 0, len(bindings))
	for _, b := range bindings {
		adapters = append(adapters, NewEntityAdapter(b.Entity, b.Collection, AdapterConfig{
			Limit:         cfg.AdapterLimit,
			ForceFallback: cfg.ForceFallback,
		}))
	}

	return &SearchService{
		adapters:    adapters,
		aggregator:  NewAggregator(links, cfg.MaxResults, cfg.SnippetRadius),
		recorder:    recorder,
		logs:        logs,
		suggestions: suggestions,
		cfg:         cfg,
	}
}

// Adapters returns the configured adapters in invocation order.
func (s *SearchService) Adapters() []*EntityAdapter {
	return s.adapters
}

// Search runs the query across every adapter visible to the principal, logs
// non-empty queries and returns results with the caller's history and
// suggestions.
func (s *SearchService) Search(ctx context.Context, p domain.Principal, query string, filters map[string]string) (*SearchResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		PrincipalID: p.ID,
		Operation:   "search",
	})
	defer span.End()

	start := time.Now()
	query = strings.TrimSpace(query)
	filters = cleanFilters(filters)

	results := []domain.SearchResult{}
	if query != "" {
		outputs, err := s.runAdapters(ctx, p, query, filters)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		results = s.aggregator.Aggregate(query, outputs)
	}
	duration := time.Since(start)
	span.SetData("result_count", len(results))

	if query != "" && s.recorder != nil {
		if _, err := s.recorder.Record(ctx, p.ID, query, filters, len(results), duration); err != nil {
			span.SetError(err)
			return nil, err
		}
	}

	history, err := s.History(ctx, p)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.Suggestions(ctx, truncateRunes(query, suggestionPrefixRunes))
	if err != nil {
		return nil, err
	}

	return &SearchResponse{
		Results:     results,
		Count:       len(results),
		DurationMs:  duration.Milliseconds(),
		History:     history,
		Suggestions: suggestions,
	}, nil
}

// runAdapters returns one output per adapter in invocation order regardless
// of completion order.
func (s *SearchService) runAdapters(ctx context.Context, p domain.Principal, query string, filters map[string]string) ([]AdapterOutput, error) {
	outputs := make([]AdapterOutput, len(s.adapters))
	failed := make([]bool, len(s.adapters))

	run := func(ctx context.Context, i int) error {
		a := s.adapters[i]
		candidates, err := a.Search(ctx, p, query, filters)
		if err != nil {
			if !s.cfg.IsolateFailures {
				return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, domain.ErrSearchBackend.Message, err)
			}
			slog.Warn("search adapter failed, skipping",
				"module", string(a.Module()),
				"principal_id", p.ID,
				"error", err,
			)
			telemetry.CaptureError(ctx, err)
			failed[i] = true
			return nil
		}
		outputs[i] = AdapterOutput{Entity: a.Entity(), Candidates: candidates}
		return nil
	}

	if s.cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range s.adapters {
			g.Go(func() error { return run(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range s.adapters {
			if err := run(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	for i := range outputs {
		if failed[i] {
			outputs[i] = AdapterOutput{Entity: s.adapters[i].Entity()}
		}
	}
	return outputs, nil
}

// Suggestions returns stored labels starting with prefix, alphabetically.
func (s *SearchService) Suggestions(ctx context.Context, prefix string) ([]string, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Suggestions", telemetry.SpanAttributes{
		Operation: "suggestions",
	})
	defer span.End()

	labels, err := s.suggestions.ListByPrefix(ctx, prefix, s.cfg.SuggestionLimit)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	if labels == nil {
		labels = []string{}
	}
	return labels, nil
}

// History returns the principal's own recent query strings, newest first.
func (s *SearchService) History(ctx context.Context, p domain.Principal) ([]string, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.History", telemetry.SpanAttributes{
		PrincipalID: p.ID,
		Operation:   "history",
	})
	defer span.End()

	queries, err := s.logs.RecentQueries(ctx, p.ID, s.cfg.HistoryLimit)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("recent queries: %w", err)
	}
	if queries == nil {
		queries = []string{}
	}
	return queries, nil
}

// HistoryPageInput represents input for HistoryPage
type HistoryPageInput struct {
	Limit  int
	Cursor string
}

const (
	defaultHistoryPageLimit = 50
	maxHistoryPageLimit     = 200
)

// HistoryPage returns full query log rows of the principal, newest first.
func (s *SearchService) HistoryPage(ctx context.Context, p domain.Principal, input HistoryPageInput) (*QueryLogPageResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryPageLimit
	}
	if limit > maxHistoryPageLimit {
		limit = maxHistoryPageLimit
	}

	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, domain.ErrInvalidCursor
		}
		return nil, err
	}

	page, err := s.logs.ListByPrincipalWithCursor(ctx, p.ID, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}
	return page, nil
}

func cleanFilters(filters map[string]string) map[string]string {
	out := make(map[string]string, len(filters))
	for k, v := range filters {
		k = strings.TrimSpace(k)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
