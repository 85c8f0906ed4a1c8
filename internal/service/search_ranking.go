package service

import (
	"math"
	"sort"

	"github.com/cloo-solutions/simsearch/internal/domain"
)

const (
	// MinRank is the relevance floor for ranked matches.
	MinRank = 0.1
	// FallbackScore is assigned to every substring match.
	FallbackScore = 0.4
	// MissingScore replaces an absent score so it never sorts as a non-match.
	MissingScore = 0.1

	DefaultMaxResults   = 25
	DefaultAdapterLimit = 50
)

// NormalizeScore maps a raw adapter score onto the shared result scale.
func NormalizeScore(raw *float64) float64 {
	if raw == nil || math.IsNaN(*raw) || *raw == 0 {
		return MissingScore
	}
	return *raw
}

// rankedResult carries the adapter position needed for tie-breaking.
type rankedResult struct {
	result       domain.SearchResult
	adapterIndex int
}

// lessRanked orders by score desc, then adapter invocation order, then
// object id asc.
func lessRanked(a, b rankedResult) bool {
	if a.result.Score != b.result.Score {
		return a.result.Score > b.result.Score
	}
	if a.adapterIndex != b.adapterIndex {
		return a.adapterIndex < b.adapterIndex
	}
	return a.result.ObjectID < b.result.ObjectID
}

func sortRanked(items []rankedResult) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessRanked(items[i], items[j])
	})
}
