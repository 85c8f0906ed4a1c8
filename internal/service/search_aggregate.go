package service

import (
	"github.com/cloo-solutions/simsearch/internal/domain"
)

// AdapterOutput is one adapter's candidates, tagged with its entity.
type AdapterOutput struct {
	Entity     Entity
	Candidates []Candidate
}

// Aggregator merges adapter outputs into one ranked, truncated result list.
type Aggregator struct {
	links         Permalinker
	maxResults    int
	snippetRadius int
}

func NewAggregator(links Permalinker, maxResults, snippetRadius int) *Aggregator {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if snippetRadius <= 0 {
		snippetRadius = DefaultSnippetRadius
	}
	return &Aggregator{links: links, maxResults: maxResults, snippetRadius: snippetRadius}
}

// Aggregate converts candidates in adapter order, sorts them and truncates.
// outputs must be in adapter invocation order.
func (a *Aggregator) Aggregate(query string, outputs []AdapterOutput) []domain.SearchResult {
	total := 0
	for _, out := range outputs {
		total += len(out.Candidates)
	}

	ranked := make([]rankedResult, 0, total)
	for i, out := range outputs {
		for _, c := range out.Candidates {
			ranked = append(ranked, rankedResult{
				result:       a.convert(out.Entity, query, c),
				adapterIndex: i,
			})
		}
	}

	sortRanked(ranked)
	if len(ranked) > a.maxResults {
		ranked = ranked[:a.maxResults]
	}

	results := make([]domain.SearchResult, len(ranked))
	for i, r := range ranked {
		results[i] = r.result
	}
	return results
}

func (a *Aggregator) convert(e Entity, query string, c Candidate) domain.SearchResult {
	var title, summary string
	if e.Title != nil {
		title = e.Title(c.Record)
	}
	if e.Summary != nil {
		summary = BuildSnippet(e.Summary(c.Record), query, a.snippetRadius)
	}
	return domain.SearchResult{
		Module:   e.Module,
		ObjectID: c.Record.ID,
		Title:    title,
		Summary:  summary,
		URL:      a.permalink(e.Route, c.Record.ID),
		Score:    NormalizeScore(c.Score),
	}
}

func (a *Aggregator) permalink(route string, id int64) string {
	if a.links == nil || route == "" {
		return ""
	}
	return a.links.Permalink(route, id)
}
