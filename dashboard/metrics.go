package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"

	"catalog-dashboard/services"
)

// Metrics holds the dashboard's Prometheus collectors
type Metrics struct {
	requests   *prometheus.CounterVec
	loadErrors prometheus.Counter
	renderTime prometheus.Histogram
}

// NewMetrics registers the dashboard collectors, including cache counters
// read straight from cache.
func NewMetrics(reg prometheus.Registerer, cache *services.CatalogCache) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "http_requests_total",
			Help:      "Dashboard HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "load_errors_total",
			Help:      "Catalog loads that failed.",
		}),
		renderTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catalog",
			Name:      "snapshot_render_seconds",
			Help:      "Time spent rendering dashboard screenshots.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
	}

	reg.MustRegister(
		m.requests,
		m.loadErrors,
		m.renderTime,
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "cache_hits_total",
			Help:      "Catalog loads served from the snapshot cache.",
		}, func() float64 { return float64(cache.Hits()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "cache_misses_total",
			Help:      "Catalog loads that parsed the CSV file.",
		}, func() float64 { return float64(cache.Misses()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "catalog",
			Name:      "cache_entries",
			Help:      "Snapshots currently held in the cache.",
		}, func() float64 { return float64(cache.Len()) }),
	)
	return m
}
