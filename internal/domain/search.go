package domain

import (
	"fmt"
	"strings"
	"time"
)

// Module tags the record type a search result came from
type Module string

const (
	ModuleAccounts     Module = "accounts"
	ModuleRotations    Module = "rotations"
	ModuleLogbook      Module = "logbook"
	ModuleCertificates Module = "certificates"
	ModuleCases        Module = "cases"
)

// Modules lists every searchable module in invocation order.
func Modules() []Module {
	return []Module{ModuleAccounts, ModuleRotations, ModuleLogbook, ModuleCertificates, ModuleCases}
}

// IsValid checks if the Module is one of the searchable record types
func (m Module) IsValid() bool {
	for _, known := range Modules() {
		if m == known {
			return true
		}
	}
	return false
}

// SearchResult is one uniform match returned to the caller.
// ObjectID is unique within Module only.
type SearchResult struct {
	Module   Module
	ObjectID int64
	Title    string
	Summary  string
	URL      string
	Score    float64
}

// QueryLog is an append-only record of one executed search
type QueryLog struct {
	ID          string
	PrincipalID int64
	QueryText   string
	Filters     map[string]string
	ResultCount int
	DurationMs  int64
	CreatedAt   time.Time
}

// NewQueryLog creates a new QueryLog instance
func NewQueryLog(id string, principalID int64, queryText string, filters map[string]string, resultCount int, durationMs int64, createdAt time.Time) *QueryLog {
	if filters == nil {
		filters = map[string]string{}
	}
	return &QueryLog{
		ID:          id,
		PrincipalID: principalID,
		QueryText:   queryText,
		Filters:     filters,
		ResultCount: resultCount,
		DurationMs:  durationMs,
		CreatedAt:   createdAt,
	}
}

// ValidateQueryLog validates a QueryLog instance
func ValidateQueryLog(l *QueryLog) error {
	if l == nil {
		return fmt.Errorf("query log cannot be nil")
	}
	if l.ID == "" {
		return fmt.Errorf("query log ID is required")
	}
	if l.PrincipalID <= 0 {
		return fmt.Errorf("query log PrincipalID is required")
	}
	if strings.TrimSpace(l.QueryText) == "" {
		return fmt.Errorf("query log QueryText is required")
	}
	if l.ResultCount < 0 {
		return fmt.Errorf("query log ResultCount must not be negative")
	}
	if l.DurationMs < 0 {
		return fmt.Errorf("query log DurationMs must not be negative")
	}
	return nil
}

// Suggestion is a previously executed query string tracked for typeahead
type Suggestion struct {
	Label      string
	Payload    map[string]any
	UsageCount int64
	UpdatedAt  time.Time
}
