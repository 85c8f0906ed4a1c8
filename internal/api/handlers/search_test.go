package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloo-solutions/simsearch/internal/api/middleware"
	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, p domain.Principal, query string, filters map[string]string) (*service.SearchResponse, error) {
	args := m.Called(ctx, p, query, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResponse), args.Error(1)
}

func (m *MockSearchService) HistoryPage(ctx context.Context, p domain.Principal, input service.HistoryPageInput) (*service.QueryLogPageResult, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QueryLogPageResult), args.Error(1)
}

func (m *MockSearchService) Suggestions(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var testSupervisor = domain.Principal{ID: 2, Username: "drkhan", Role: domain.RoleSupervisor}

func requestAs(p domain.Principal, method, url string) *http.Request {
	req := httptest.NewRequest(method, url, nil)
	ctx := context.WithValue(req.Context(), middleware.PrincipalKey, p)
	return req.WithContext(ctx)
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func TestSearchHandler_Search_Success(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, testSupervisor, "Ahmed", map[string]string{"status": "approved"}).
		Return(&service.SearchResponse{
			Results: []domain.SearchResult{{
				Module: domain.ModuleAccounts, ObjectID: 3, Title: "Ahmed Raza",
				Summary: "Role: Postgraduate", URL: "/users/profile/3/", Score: 0.6,
			}},
			Count:       1,
			DurationMs:  4,
			History:     []string{"Ahmed"},
			Suggestions: []string{"Ahmed"},
		}, nil)

	req := requestAs(testSupervisor, http.MethodGet, "/search?q=Ahmed&filter_status=approved&filter_role=&page=2")
	w := httptest.NewRecorder()

	handler.Search(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body envelope[SearchResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Results, 1)
	assert.Equal(t, "accounts", body.Data.Results[0].Module)
	assert.Equal(t, int64(3), body.Data.Results[0].ObjectID)
	assert.Equal(t, "/users/profile/3/", body.Data.Results[0].URL)
	assert.Equal(t, 1, body.Data.Count)
	assert.Equal(t, []string{"Ahmed"}, body.Data.History)
	mockSvc.AssertExpectations(t)
}

func TestSearchHandler_Search_EmptyListsSerializeAsArrays(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, testSupervisor, "", map[string]string{}).
		Return(&service.SearchResponse{}, nil)

	req := requestAs(testSupervisor, http.MethodGet, "/search")
	w := httptest.NewRecorder()

	handler.Search(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"results":[],"count":0,"duration_ms":0,"history":[],"suggestions":[]}}`, w.Body.String())
}

func TestSearchHandler_Search_Unauthorized(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/search?q=x", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchHandler_Search_BackendFailure(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, testSupervisor, "x", mock.Anything).
		Return(nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, domain.ErrSearchBackend.Message, errors.New("timeout")))

	req := requestAs(testSupervisor, http.MethodGet, "/search?q=x")
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "timeout")
}

func TestSearchHandler_History(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mockSvc.On("HistoryPage", mock.Anything, testSupervisor, service.HistoryPageInput{Limit: 2, Cursor: "abc"}).
		Return(&service.QueryLogPageResult{
			Items: []*domain.QueryLog{
				domain.NewQueryLog("log-1", 2, "Ahmed", map[string]string{"status": "approved"}, 3, 12, created),
			},
			NextCursor: "next",
			HasMore:    true,
		}, nil)

	req := requestAs(testSupervisor, http.MethodGet, "/search/history?limit=2&cursor=abc")
	w := httptest.NewRecorder()

	handler.History(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body envelope[HistoryResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "Ahmed", body.Data.Items[0].Query)
	assert.Equal(t, map[string]string{"status": "approved"}, body.Data.Items[0].Filters)
	assert.Equal(t, "2024-03-01T10:00:00Z", body.Data.Items[0].CreatedAt)
	assert.Equal(t, "next", body.Data.Cursor)
	assert.True(t, body.Data.HasMore)
}

func TestSearchHandler_History_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		setup func(*MockSearchService)
	}{
		{name: "non-numeric limit", url: "/search/history?limit=abc"},
		{name: "negative limit", url: "/search/history?limit=-1"},
		{
			name: "bad cursor",
			url:  "/search/history?cursor=bogus",
			setup: func(m *MockSearchService) {
				m.On("HistoryPage", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCursor)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockSearchService)
			if tt.setup != nil {
				tt.setup(mockSvc)
			}
			w := httptest.NewRecorder()
			NewSearchHandler(mockSvc).History(w, requestAs(testSupervisor, http.MethodGet, tt.url))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSearchHandler_Suggestions(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Suggestions", mock.Anything, "app").Return([]string{"Appendix", "appendicitis"}, nil)

	req := requestAs(testSupervisor, http.MethodGet, "/search/suggestions?q=+app+")
	w := httptest.NewRecorder()

	handler.Suggestions(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"suggestions":["Appendix","appendicitis"]}}`, w.Body.String())
	assert.Equal(t, "private, max-age=30", w.Header().Get("Cache-Control"))
}

func TestParseFilters(t *testing.T) {
	got := parseFilters(map[string][]string{
		"q":             {"x"},
		"filter_status": {"approved", "draft"},
		"filter_role":   {""},
		"filter_":       {"ignored"},
		"status":        {"ignored"},
	})
	assert.Equal(t, map[string]string{"status": "approved"}, got)
}
