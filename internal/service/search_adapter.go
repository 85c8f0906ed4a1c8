package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/telemetry"
)

// Strategy selects how an adapter matches text against its collection.
type Strategy string

const (
	// StrategyRanked uses the store's weighted full-text ranking.
	StrategyRanked Strategy = "ranked"
	// StrategyFallback uses case-insensitive substring containment.
	StrategyFallback Strategy = "fallback"
)

// Weight is the full-text weight class of a field, A highest.
type Weight string

const (
	WeightA Weight = "A"
	WeightB Weight = "B"
	WeightC Weight = "C"
)

// WeightedField is one entry of an entity's ordered search field list.
type WeightedField struct {
	Field  string
	Weight Weight
}

// Record is one row of a collaborator collection, keyed by logical field name.
type Record struct {
	ID     int64
	Fields map[string]string
}

// Field returns a logical field value, or "" when absent.
func (r Record) Field(name string) string {
	if v, ok := r.Fields[name]; ok {
		return v
	}
	if name == "id" {
		return strconv.FormatInt(r.ID, 10)
	}
	return ""
}

// Candidate is a matched record with its raw score. Score is nil when the
// store produced none.
type Candidate struct {
	Record Record
	Score  *float64
}

// FieldFilter is an exact-match constraint on a logical field.
type FieldFilter struct {
	Field string
	Value string
}

// MatchQuery is the store-level request an adapter hands to its collection.
type MatchQuery struct {
	Strategy Strategy
	Text     string
	Fields   []WeightedField
	Scope    Predicate
	Filters  []FieldFilter
	// MinRank discards ranked matches below this relevance.
	MinRank float64
	Limit   int
}

// RecordCollection is a read-only, filterable collaborator collection.
type RecordCollection interface {
	// SupportsRanking reports whether the backing store offers weighted
	// text ranking.
	SupportsRanking() bool
	Match(ctx context.Context, q MatchQuery) ([]Candidate, error)
}

// AdapterConfig controls adapter construction.
type AdapterConfig struct {
	Limit         int
	ForceFallback bool
}

// EntityAdapter turns a query and structured filters into scored candidates
// within one entity's scoped collection. The matching algorithm is shared by
// every entity; only the Entity description differs.
type EntityAdapter struct {
	entity   Entity
	coll     RecordCollection
	strategy Strategy
	limit    int
}

// NewEntityAdapter binds an entity to its collection and fixes the matching
// strategy from the collection's capability.
func NewEntityAdapter(entity Entity, coll RecordCollection, cfg AdapterConfig) *EntityAdapter {
	strategy := StrategyFallback
	if coll.SupportsRanking() && !cfg.ForceFallback {
		strategy = StrategyRanked
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultAdapterLimit
	}
	slog.Debug("search adapter configured",
		"module", string(entity.Module),
		"strategy", string(strategy),
		"limit", limit,
	)
	return &EntityAdapter{entity: entity, coll: coll, strategy: strategy, limit: limit}
}

func (a *EntityAdapter) Module() domain.Module { return a.entity.Module }

func (a *EntityAdapter) Entity() Entity { return a.entity }

func (a *EntityAdapter) Strategy() Strategy { return a.strategy }

// Search scopes the collection to the principal, applies the known filters and
// matches text with the adapter's strategy.
func (a *EntityAdapter) Search(ctx context.Context, p domain.Principal, text string, filters map[string]string) ([]Candidate, error) {
	ctx, span := telemetry.StartSpan(ctx, "EntityAdapter.Search", telemetry.SpanAttributes{
		PrincipalID: p.ID,
		Module:      string(a.entity.Module),
		Operation:   string(a.strategy),
	})
	defer span.End()

	scope := Scope(p, a.entity.Scope)
	if scope.IsNone() {
		return nil, nil
	}

	q := MatchQuery{
		Strategy: a.strategy,
		Text:     text,
		Fields:   a.entity.Fields,
		Scope:    scope,
		Filters:  a.entity.resolveFilters(filters),
		MinRank:  MinRank,
		Limit:    a.limit,
	}

	candidates, err := a.coll.Match(ctx, q)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("search %s: %w", a.entity.Module, err)
	}

	if a.strategy == StrategyFallback {
		for i := range candidates {
			s := FallbackScore
			candidates[i].Score = &s
		}
	}
	return candidates, nil
}

// resolveFilters maps request filter keys onto logical fields. Unknown keys and
// empty values are dropped. Output is ordered by key.
func (e Entity) resolveFilters(filters map[string]string) []FieldFilter {
	if len(filters) == 0 || len(e.Filters) == 0 {
		return nil
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		if _, ok := e.Filters[k]; ok && filters[k] != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]FieldFilter, 0, len(keys))
	for _, k := range keys {
		out = append(out, FieldFilter{Field: e.Filters[k], Value: filters[k]})
	}
	return out
}
