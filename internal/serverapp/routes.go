package serverapp

import (
	"net/http"
	"sort"
	"strings"
)

// RouteDoc describes one API route for /_/routes.json.
type RouteDoc struct {
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Group       string `json:"group"`
	Mutates     bool   `json:"mutates"`
	Summary     string `json:"summary,omitempty"`
	ExampleBody string `json:"example_body,omitempty"`
}

type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

// List returns the routes ordered by group, then pattern, then method.
func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.routes))
	copy(out, rr.routes)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.Pattern != b.Pattern {
			return a.Pattern < b.Pattern
		}
		return a.Method < b.Method
	})
	return out
}

// Mutations lists the routes that change engine state.
func (rr *RouteRegistry) Mutations() []RouteDoc {
	var out []RouteDoc
	for _, d := range rr.List() {
		if d.Mutates {
			out = append(out, d)
		}
	}
	return out
}

// routeGroup is the resource a pattern belongs to: the segment after /api/,
// or "site" for everything outside the API.
func routeGroup(pattern string) string {
	rest, ok := strings.CutPrefix(pattern, "/api/")
	if !ok {
		return "site"
	}
	seg, _, _ := strings.Cut(rest, "/")
	seg, _, _ = strings.Cut(seg, ".")
	if seg == "" {
		return "site"
	}
	return seg
}

func Handle(mux *http.ServeMux, rr *RouteRegistry, methodAndPattern, summary, exampleBody string, h http.HandlerFunc) {
	method, pattern, _ := strings.Cut(methodAndPattern, " ")
	rr.Add(RouteDoc{
		Method:      method,
		Pattern:     pattern,
		Group:       routeGroup(pattern),
		Mutates:     method != http.MethodGet && method != http.MethodHead,
		Summary:     summary,
		ExampleBody: exampleBody,
	})
	mux.HandleFunc(methodAndPattern, h)
}
