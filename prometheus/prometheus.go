// Package prometheus exposes resolution metrics for mira services.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/mira"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors shared by the instrumented decorators.
type Metrics struct {
	// resolutions counts answered queries.
	//
	// Labels:
	//   - tier: "exact", "fuzzy", "fallback" or "error"
	resolutions *prometheus.CounterVec

	// duration measures end-to-end resolution latency.
	//
	// Labels:
	//   - tier: "exact", "fuzzy", "fallback" or "error"
	duration *prometheus.HistogramVec

	// fallbacks counts external lookups by result kind.
	//
	// Labels:
	//   - source: fallback name, e.g. "wikipedia"
	//   - result: "answer", "found", "not_found" or "transport_error"
	fallbacks *prometheus.CounterVec
}

// NewMetrics registers mira collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mira",
				Name:      "resolutions_total",
				Help:      "Total number of resolved queries by tier.",
			},
			[]string{"tier"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mira",
				Name:      "resolve_duration_seconds",
				Help:      "Duration of query resolution in seconds.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"tier"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mira",
				Name:      "fallback_results_total",
				Help:      "Total number of external lookups by source and result.",
			},
			[]string{"source", "result"},
		),
	}
}

// Handler returns an HTTP handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Ensure Resolver implements mira.Resolver.
var _ mira.Resolver = (*Resolver)(nil)

// Resolver wraps a mira.Resolver and records resolution metrics.
type Resolver struct {
	next    mira.Resolver
	metrics *Metrics
}

// NewResolver creates a new instrumented Resolver.
func NewResolver(next mira.Resolver, metrics *Metrics) *Resolver {
	return &Resolver{next: next, metrics: metrics}
}

// Resolve delegates to the wrapped resolver and records its tier and latency.
func (r *Resolver) Resolve(ctx context.Context, query string) *mira.Resolution {
	begin := time.Now()
	res := r.next.Resolve(ctx, query)
	tier := string(res.Tier)
	r.metrics.resolutions.WithLabelValues(tier).Inc()
	r.metrics.duration.WithLabelValues(tier).Observe(time.Since(begin).Seconds())
	return res
}

// Ensure FallbackResolver implements mira.FallbackResolver.
var _ mira.FallbackResolver = (*FallbackResolver)(nil)

// FallbackResolver wraps a mira.FallbackResolver and counts results by kind.
type FallbackResolver struct {
	next    mira.FallbackResolver
	source  string
	metrics *Metrics
}

// NewFallbackResolver creates a new instrumented FallbackResolver.
func NewFallbackResolver(next mira.FallbackResolver, source string, metrics *Metrics) *FallbackResolver {
	return &FallbackResolver{next: next, source: source, metrics: metrics}
}

// Resolve delegates to the wrapped resolver and counts the result kind.
func (r *FallbackResolver) Resolve(ctx context.Context, query string) mira.FallbackResult {
	result := r.next.Resolve(ctx, query)
	r.metrics.fallbacks.WithLabelValues(r.source, string(result.Kind)).Inc()
	return result
}
