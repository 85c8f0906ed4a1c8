package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/pagination"
)

// memCollection is an in-memory RecordCollection.
type memCollection struct {
	ranking bool
	records []Record
	// scores are returned in ranked mode; missing ids rank 0.5
	scores map[int64]float64
	err    error
	calls  atomic.Int32
	last   MatchQuery
	mu     sync.Mutex
}

func (c *memCollection) SupportsRanking() bool { return c.ranking }

func (c *memCollection) Match(ctx context.Context, q MatchQuery) ([]Candidate, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.last = q
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	var out []Candidate
	for _, r := range c.records {
		if !q.Scope.matches(r) || !matchesFilters(r, q.Filters) || !containsAny(r, q) {
			continue
		}
		cand := Candidate{Record: r}
		if q.Strategy == StrategyRanked {
			s, ok := c.scores[r.ID]
			if !ok {
				s = 0.5
			}
			if s < q.MinRank {
				continue
			}
			cand.Score = &s
		}
		out = append(out, cand)
	}
	if q.Strategy == StrategyRanked {
		sort.SliceStable(out, func(i, j int) bool { return *out[i].Score > *out[j].Score })
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (c *memCollection) lastQuery() MatchQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func matchesFilters(r Record, filters []FieldFilter) bool {
	for _, f := range filters {
		if r.Field(f.Field) != f.Value {
			return false
		}
	}
	return true
}

func containsAny(r Record, q MatchQuery) bool {
	needle := strings.ToLower(q.Text)
	for _, f := range q.Fields {
		if strings.Contains(strings.ToLower(r.Field(f.Field)), needle) {
			return true
		}
	}
	return false
}

// memLogs is an in-memory QueryLogRepository.
type memLogs struct {
	mu      sync.Mutex
	rows    []*domain.QueryLog
	applied map[string]bool
	err     error
}

func (m *memLogs) CreateQueryLog(ctx context.Context, l *domain.QueryLog) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, l)
	return nil
}

func (m *memLogs) RecentQueries(ctx context.Context, principalID int64, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].PrincipalID == principalID {
			out = append(out, m.rows[i].QueryText)
		}
	}
	return out, nil
}

func (m *memLogs) ListByPrincipalWithCursor(ctx context.Context, principalID int64, cursor *pagination.Cursor, limit int) (*QueryLogPageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*domain.QueryLog
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].PrincipalID == principalID {
			items = append(items, m.rows[i])
		}
	}
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	return &QueryLogPageResult{Items: items, HasMore: hasMore}, nil
}

func (m *memLogs) ClaimSuggestion(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applied == nil {
		m.applied = map[string]bool{}
	}
	for _, r := range m.rows {
		if r.ID == id && !m.applied[id] {
			m.applied[id] = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memLogs) ListPendingSuggestions(ctx context.Context, limit int) ([]*domain.QueryLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.QueryLog
	for _, r := range m.rows {
		if len(out) == limit {
			break
		}
		if !m.applied[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memLogs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memSuggestions is an in-memory SuggestionRepository.
type memSuggestions struct {
	mu   sync.Mutex
	rows map[string]*domain.Suggestion
	err  error
}

func newMemSuggestions() *memSuggestions {
	return &memSuggestions{rows: map[string]*domain.Suggestion{}}
}

func (m *memSuggestions) Touch(ctx context.Context, label string, payload map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if s, ok := m.rows[label]; ok {
		s.UsageCount++
		s.UpdatedAt = time.Now()
		return nil
	}
	m.rows[label] = &domain.Suggestion{Label: label, Payload: payload, UsageCount: 1, UpdatedAt: time.Now()}
	return nil
}

func (m *memSuggestions) ListByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for label := range m.rows {
		if strings.HasPrefix(strings.ToLower(label), strings.ToLower(prefix)) {
			out = append(out, label)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memSuggestions) GetByLabel(ctx context.Context, label string) (*domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[label]
	if !ok {
		return nil, domain.ErrSuggestionNotFound
	}
	cp := *s
	return &cp, nil
}

func floatPtr(f float64) *float64 { return &f }

func rec(id int64, fields map[string]string) Record {
	return Record{ID: id, Fields: fields}
}
