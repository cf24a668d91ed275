package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the invocation instrumentation for the shim. All
// collectors live in a private registry so tests can create isolated
// instances.
type Metrics struct {
	registry *prometheus.Registry

	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	invocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "funcgate",
		Name:      "invocations_total",
		Help:      "Number of function invocations, by target and status code.",
	}, []string{"target", "code"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "funcgate",
		Name:      "invocation_duration_seconds",
		Help:      "Duration of function invocations, by target.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"target"})

	registry.MustRegister(
		invocations,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:    registry,
		invocations: invocations,
		duration:    duration,
	}
}

// ObserveInvocation records a completed invocation.
func (m *Metrics) ObserveInvocation(target string, status int, elapsed time.Duration) {
	m.invocations.WithLabelValues(target, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(target).Observe(elapsed.Seconds())
}

// HTTPHandler returns the scrape endpoint for the private registry.
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
