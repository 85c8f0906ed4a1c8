package service

import (
	"strconv"
	"strings"
)

// Permalinker resolves a route name and object id to a URL. Unknown routes
// resolve to "".
type Permalinker interface {
	Permalink(route string, id int64) string
}

// RouteTable is a static Permalinker over `{id}` path templates.
type RouteTable struct {
	baseURL string
	routes  map[string]string
}

// DefaultRoutes returns the detail-page routes of the record subsystems.
func DefaultRoutes() map[string]string {
	return map[string]string{
		"accounts:profile_detail": "/users/profile/{id}/",
		"rotations:detail":        "/rotations/{id}/",
		"logbook:detail":          "/logbook/entry/{id}/",
		"certificates:detail":     "/certificates/{id}/",
		"cases:case_detail":       "/cases/{id}/",
	}
}

// NewRouteTable creates a RouteTable. baseURL may be empty for relative links.
func NewRouteTable(baseURL string, routes map[string]string) *RouteTable {
	copied := make(map[string]string, len(routes))
	for k, v := range routes {
		copied[k] = v
	}
	return &RouteTable{baseURL: strings.TrimRight(baseURL, "/"), routes: copied}
}

func (t *RouteTable) Permalink(route string, id int64) string {
	if t == nil {
		return ""
	}
	tmpl, ok := t.routes[route]
	if !ok || !strings.Contains(tmpl, "{id}") {
		return ""
	}
	return t.baseURL + strings.ReplaceAll(tmpl, "{id}", strconv.FormatInt(id, 10))
}
