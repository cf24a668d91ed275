package server

import (
	"net/http"

	"go.uber.org/fx"
)

// Route pairs a mux pattern with its handler. Routes are collected via
// the fx "routes" group and mounted on the serving mux, both for the
// standalone server and for the serverless backends.
type Route struct {
	Pattern string
	Handler http.Handler
}

type RouteResult struct {
	fx.Out

	Route *Route `group:"routes"`
}

func AsRoute(pattern string, handler http.Handler) RouteResult {
	return RouteResult{
		Route: &Route{
			Pattern: pattern,
			Handler: handler,
		},
	}
}

// NewMux builds a request mux from the collected routes.
func NewMux(routes []*Route) *http.ServeMux {
	mux := http.NewServeMux()

	for _, route := range routes {
		mux.Handle(route.Pattern, route.Handler)
	}

	return mux
}
