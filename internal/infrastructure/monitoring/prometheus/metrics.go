package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hacknebula"

// AppMetrics bundles every metric the platform emits.
type AppMetrics struct {
	// HTTP surface.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge

	// Galaxy map layout engine.
	LayoutComputeDuration prometheus.Histogram
	LayoutTerritories     prometheus.Histogram
	MapCacheHits          prometheus.Counter
	MapCacheMisses        prometheus.Counter

	// Domain activity.
	ChipAllocationsTotal *prometheus.CounterVec
	JudgingWritesTotal   prometheus.Counter
	BuildLogsTotal       prometheus.Counter
	FeedPostsTotal       prometheus.Counter

	// Infrastructure.
	CacheOperations  *prometheus.CounterVec
	ActivityProduced *prometheus.CounterVec
	ActivityConsumed *prometheus.CounterVec
	ConsumerLag      prometheus.Gauge
}

// NewAppMetrics registers all application metrics on the collector's
// registry.
func NewAppMetrics(c *Collector) *AppMetrics {
	m := &AppMetrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),

		LayoutComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_compute_duration_seconds",
			Help:      "Wall time of one full galaxy map layout pass.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		LayoutTerritories: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_territories",
			Help:      "Territories produced per layout pass.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		MapCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_cache_hits_total",
			Help:      "Galaxy map responses served from cache.",
		}),
		MapCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_cache_misses_total",
			Help:      "Galaxy map responses that required a layout pass.",
		}),

		ChipAllocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chip_allocations_total",
			Help:      "Investor chip allocations by outcome.",
		}, []string{"outcome"}),
		JudgingWritesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "judging_writes_total",
			Help:      "Scorecard submissions accepted.",
		}),
		BuildLogsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_logs_total",
			Help:      "Build log entries recorded on planet lands.",
		}),
		FeedPostsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_posts_total",
			Help:      "Posts published to the event feed.",
		}),

		CacheOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Redis cache operations by op and result.",
		}, []string{"op", "result"}),
		ActivityProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_events_produced_total",
			Help:      "Activity events published to Kafka by type and result.",
		}, []string{"type", "result"}),
		ActivityConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_events_consumed_total",
			Help:      "Activity events consumed from Kafka by type and result.",
		}, []string{"type", "result"}),
		ConsumerLag: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "activity_consumer_lag",
			Help:      "Approximate unconsumed messages on the activity topic.",
		}),
	}

	c.Registry().MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration, m.HTTPInFlight,
		m.LayoutComputeDuration, m.LayoutTerritories,
		m.MapCacheHits, m.MapCacheMisses,
		m.ChipAllocationsTotal, m.JudgingWritesTotal,
		m.BuildLogsTotal, m.FeedPostsTotal,
		m.CacheOperations, m.ActivityProduced, m.ActivityConsumed,
		m.ConsumerLag,
	)
	return m
}

// ObserveHTTP records one finished HTTP request.
func (m *AppMetrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLayout records one galaxy map layout pass.
func (m *AppMetrics) ObserveLayout(territories int, elapsed time.Duration) {
	m.LayoutComputeDuration.Observe(elapsed.Seconds())
	m.LayoutTerritories.Observe(float64(territories))
}
