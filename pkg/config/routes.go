package config

import "strings"

// Route is one location mapping: a literal URL path prefix and the
// filesystem root directory that serves it.
type Route struct {
	Prefix string
	Root   string
}

// RouteSet holds the routes of one listening port in declaration order.
type RouteSet struct {
	routes []Route
}

// NewRouteSet builds a RouteSet; declaration order is the argument order.
func NewRouteSet(routes ...Route) *RouteSet {
	return &RouteSet{routes: routes}
}

// Routes returns the routes in declaration order.
func (rs *RouteSet) Routes() []Route {
	return rs.routes
}

// Resolve returns the root for the longest route prefix that literally
// prefixes path. The comparison is byte-wise: no percent-decoding, no
// normalization. Ties on prefix length go to the earliest declared
// route. ok is false when no prefix matches.
func (rs *RouteSet) Resolve(path string) (root string, ok bool) {
	best := -1
	for i, r := range rs.routes {
		if !strings.HasPrefix(path, r.Prefix) {
			continue
		}
		if best == -1 || len(r.Prefix) > len(rs.routes[best].Prefix) {
			best = i
		}
	}
	if best == -1 {
		return "", false
	}
	return rs.routes[best].Root, true
}

// RoutingTable maps a listening port to its routes. It is built once at
// startup and never mutated afterwards, so sharing it is safe.
type RoutingTable map[int]*RouteSet
