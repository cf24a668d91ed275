package handler

import (
	"net/http"

	"github.com/funcgate/funcgate/internal/metrics"
	"github.com/funcgate/funcgate/internal/server"
)

func NewFunctionRoute(handler *HTTPHandler) server.RouteResult {
	return server.AsRoute("/", handler)
}

func NewEventRoute(handler *EventHandler) server.RouteResult {
	return server.AsRoute("/events", handler)
}

func NewHealthRoute() server.RouteResult {
	return server.AsRoute("/health", http.HandlerFunc(HealthHandler))
}

func NewMetricsRoute(m *metrics.Metrics) server.RouteResult {
	return server.AsRoute("/metrics", m.HTTPHandler())
}
