package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cloo-solutions/simsearch/internal/api"
	"github.com/cloo-solutions/simsearch/internal/api/middleware"
	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/service"
)

// filterPrefix marks query parameters that are passed to adapters as filters.
const filterPrefix = "filter_"

// suggestionsMaxAge matches how long clients may reuse a suggestion list.
const suggestionsMaxAge = 30 * time.Second

type SearchService interface {
	Search(ctx context.Context, p domain.Principal, query string, filters map[string]string) (*service.SearchResponse, error)
	HistoryPage(ctx context.Context, p domain.Principal, input service.HistoryPageInput) (*service.QueryLogPageResult, error)
	Suggestions(ctx context.Context, prefix string) ([]string, error)
}

type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type SearchResultResponse struct {
	Module   string  `json:"module"`
	ObjectID int64   `json:"object_id"`
	Title    string  `json:"title"`
	Summary  string  `json:"summary"`
	URL      string  `json:"url"`
	Score    float64 `json:"score"`
}

type SearchResponse struct {
	Results     []SearchResultResponse `json:"results"`
	Count       int                    `json:"count"`
	DurationMs  int64                  `json:"duration_ms"`
	History     []string               `json:"history"`
	Suggestions []string               `json:"suggestions"`
}

type QueryLogResponse struct {
	ID          string            `json:"id"`
	Query       string            `json:"query"`
	Filters     map[string]string `json:"filters"`
	ResultCount int               `json:"result_count"`
	DurationMs  int64             `json:"duration_ms"`
	CreatedAt   string            `json:"created_at"`
}

type HistoryResponse struct {
	Items   []QueryLogResponse `json:"items"`
	Cursor  string             `json:"cursor,omitempty"`
	HasMore bool               `json:"has_more"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	out, err := h.svc.Search(r.Context(), p, q.Get("q"), parseFilters(q))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	results := make([]SearchResultResponse, len(out.Results))
	for i, res := range out.Results {
		results[i] = SearchResultResponse{
			Module:   string(res.Module),
			ObjectID: res.ObjectID,
			Title:    res.Title,
			Summary:  res.Summary,
			URL:      res.URL,
			Score:    res.Score,
		}
	}

	api.Success(w, http.StatusOK, SearchResponse{
		Results:     results,
		Count:       out.Count,
		DurationMs:  out.DurationMs,
		History:     nonNil(out.History),
		Suggestions: nonNil(out.Suggestions),
	})
}

func (h *SearchHandler) History(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	input := service.HistoryPageInput{Cursor: r.URL.Query().Get("cursor")}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			api.HandleError(w, domain.ErrInvalidLimit)
			return
		}
		input.Limit = parsed
	}

	page, err := h.svc.HistoryPage(r.Context(), p, input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]QueryLogResponse, len(page.Items))
	for i, l := range page.Items {
		items[i] = QueryLogResponse{
			ID:          l.ID,
			Query:       l.QueryText,
			Filters:     l.Filters,
			ResultCount: l.ResultCount,
			DurationMs:  l.DurationMs,
			CreatedAt:   l.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}

	api.Success(w, http.StatusOK, HistoryResponse{
		Items:   items,
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	})
}

func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetPrincipal(r.Context()); !ok {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	labels, err := h.svc.Suggestions(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age="+strconv.Itoa(int(suggestionsMaxAge.Seconds())))
	api.Success(w, http.StatusOK, SuggestionsResponse{Suggestions: nonNil(labels)})
}

// parseFilters collects non-empty filter_<key> parameters keyed by <key>.
func parseFilters(values map[string][]string) map[string]string {
	filters := map[string]string{}
	for key, vals := range values {
		name, ok := strings.CutPrefix(key, filterPrefix)
		if !ok || name == "" || len(vals) == 0 || vals[0] == "" {
			continue
		}
		filters[name] = vals[0]
	}
	return filters
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
