package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/pagination"
	"github.com/cloo-solutions/simsearch/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueryLog(principalID int64, query string, createdAt time.Time) *domain.QueryLog {
	return domain.NewQueryLog(uuid.Must(uuid.NewV7()).String(), principalID, query, map[string]string{"status": "approved"}, 3, 12, createdAt)
}

func TestSQLiteQueryLogRepository_CreateAndRecent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(ctx, t)
	repo := NewSQLiteQueryLogRepository(db)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, q := range []string{"first", "second", "third"} {
		require.NoError(t, repo.CreateQueryLog(ctx, newTestQueryLog(7, q, base.Add(time.Duration(i)*time.Second))))
	}
	require.NoError(t, repo.CreateQueryLog(ctx, newTestQueryLog(8, "someone else", base)))

	recent, err := repo.RecentQueries(ctx, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second"}, recent)

	none, err := repo.RecentQueries(ctx, 99, 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSQLiteQueryLogRepository_ListByPrincipalWithCursor(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(ctx, t)
	repo := NewSQLiteQueryLogRepository(db)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateQueryLog(ctx, newTestQueryLog(7, fmt.Sprintf("q%d", i), base.Add(time.Duration(i)*time.Second))))
	}

	page, err := repo.ListByPrincipalWithCursor(ctx, 7, nil, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextCursor)
	assert.Equal(t, "q4", page.Items[0].QueryText)
	assert.Equal(t, "q3", page.Items[1].QueryText)
	assert.Equal(t, map[string]string{"status": "approved"}, page.Items[0].Filters)
	assert.Equal(t, 3, page.Items[0].ResultCount)
	assert.Equal(t, int64(12), page.Items[0].DurationMs)
	assert.True(t, page.Items[0].CreatedAt.Equal(base.Add(4*time.Second)))

	var seen []string
	for _, l := range page.Items {
		seen = append(seen, l.QueryText)
	}
	for page.HasMore {
		cursor, err := pagination.DecodeCursor(page.NextCursor)
		require.NoError(t, err)
		page, err = repo.ListByPrincipalWithCursor(ctx, 7, cursor, 2)
		require.NoError(t, err)
		for _, l := range page.Items {
			seen = append(seen, l.QueryText)
		}
	}
	assert.Equal(t, []string{"q4", "q3", "q2", "q1", "q0"}, seen)
}

func TestSQLiteQueryLogRepository_SameTimestampOrdersByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(ctx, t)
	repo := NewSQLiteQueryLogRepository(db)

	at := time.Now().UTC()
	for _, q := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateQueryLog(ctx, newTestQueryLog(7, q, at)))
	}

	recent, err := repo.RecentQueries(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, recent)
}

func TestSQLiteQueryLogRepository_ClaimSuggestion(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(ctx, t)
	repo := NewSQLiteQueryLogRepository(db)

	l := newTestQueryLog(1, "sepsis", time.Now())
	require.NoError(t, repo.CreateQueryLog(ctx, l))

	claimed, err := repo.ClaimSuggestion(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimSuggestion(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, claimed, "second claim must lose")

	claimed, err = repo.ClaimSuggestion(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestSQLiteQueryLogRepository_ListPendingSuggestions(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(ctx, t)
	repo := NewSQLiteQueryLogRepository(db)

	base := time.Now().UTC().Truncate(time.Millisecond)
	var ids []string
	for i, q := range []string{"sepsis", "hernia", "burns"} {
		l := newTestQueryLog(1, q, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.CreateQueryLog(ctx, l))
		ids = append(ids, l.ID)
	}
	_, err := repo.ClaimSuggestion(ctx, ids[1])
	require.NoError(t, err)

	pending, err := repo.ListPendingSuggestions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "sepsis", pending[0].QueryText)
	assert.Equal(t, "burns", pending[1].QueryText)
	assert.Equal(t, map[string]string{"status": "approved"}, pending[0].Filters)

	pending, err = repo.ListPendingSuggestions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[0], pending[0].ID)
}
