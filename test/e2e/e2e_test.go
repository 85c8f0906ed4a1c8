//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/cloo-solutions/simsearch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchData struct {
	Results []struct {
		Module   string  `json:"module"`
		ObjectID int64   `json:"object_id"`
		Title    string  `json:"title"`
		Summary  string  `json:"summary"`
		URL      string  `json:"url"`
		Score    float64 `json:"score"`
	} `json:"results"`
	Count       int      `json:"count"`
	History     []string `json:"history"`
	Suggestions []string `json:"suggestions"`
}

func (d searchData) keys() []string {
	keys := make([]string, len(d.Results))
	for i, r := range d.Results {
		keys[i] = r.Module + "/" + strconv.FormatInt(r.ObjectID, 10)
	}
	return keys
}

func search(t *testing.T, env *E2ETestEnv, q string, principalID int64) searchData {
	t.Helper()
	resp, err := env.Get("/search?q="+url.QueryEscape(q), principalID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status, resp.Error)

	var data searchData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

// TestE2E_SearchWorkflow covers the HTTP surface of a running simsd
func TestE2E_SearchWorkflow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	t.Run("requires principal", func(t *testing.T) {
		resp, err := env.Get("/search?q=Ahmed", 0)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)

		resp, err = env.Get("/search?q=Ahmed", testutil.InactiveID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("supervisor sees subordinate records", func(t *testing.T) {
		data := search(t, env, "Ahmed", testutil.SupervisorID)

		assert.ElementsMatch(t, []string{"accounts/3", "rotations/1", "cases/1"}, data.keys())
		assert.Equal(t, 3, data.Count)
		for i := 1; i < len(data.Results); i++ {
			assert.GreaterOrEqual(t, data.Results[i-1].Score, data.Results[i].Score)
		}
		for _, r := range data.Results {
			assert.True(t, strings.HasPrefix(r.URL, "https://sims.test/"), r.URL)
		}
		assert.Equal(t, []string{"Ahmed"}, data.History)
		assert.Equal(t, []string{"Ahmed"}, data.Suggestions)
	})

	t.Run("unrelated account sees nothing of the trainee", func(t *testing.T) {
		data := search(t, env, "Ahmed", testutil.OtherID)
		assert.NotContains(t, data.keys(), "rotations/1")
		assert.NotContains(t, data.keys(), "cases/1")
	})

	t.Run("administrator sees everything", func(t *testing.T) {
		data := search(t, env, "Ahmed", testutil.AdminID)
		assert.Contains(t, data.keys(), "accounts/3")
		assert.Contains(t, data.keys(), "rotations/1")
		assert.Contains(t, data.keys(), "cases/1")
	})

	t.Run("history and suggestions", func(t *testing.T) {
		resp, err := env.Get("/search/history?limit=1", testutil.SupervisorID)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status)

		var page struct {
			Items []struct {
				Query       string `json:"query"`
				ResultCount int    `json:"result_count"`
			} `json:"items"`
			HasMore bool `json:"has_more"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Ahmed", page.Items[0].Query)
		assert.Equal(t, 3, page.Items[0].ResultCount)

		resp, err = env.Get("/search/suggestions?q=ahm", testutil.OtherID)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status)

		var sugg struct {
			Suggestions []string `json:"suggestions"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &sugg))
		assert.Equal(t, []string{"Ahmed"}, sugg.Suggestions)
	})
}

// TestE2E_CLIWorkflow drives the one-shot simsd commands against Postgres
func TestE2E_CLIWorkflow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	out, err := env.RunSimsd("search", "Ahmed", "--as", "2", "-o", "json")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"count": 3`)

	out, err = env.RunSimsd("history", "--as", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Ahmed")

	out, err = env.RunSimsd("suggestions", "list", "Ah")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Ahmed")

	out, err = env.RunSimsd("suggestions", "rebuild")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Suggestions rebuilt")

	out, err = env.RunSimsd("search", "--help-json")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"name": "search"`)
}
