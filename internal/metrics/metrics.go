package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels requests that produced a response.
	OutcomeSuccess = "success"
	// OutcomeError labels requests that failed.
	OutcomeError = "error"
)

var (
	viewRecomputationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "income_explorer",
			Name:      "view_recomputations_total",
			Help:      "Total number of filtered-view recomputations across all sessions.",
		},
	)

	viewCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "income_explorer",
			Name:      "view_cache_hits_total",
			Help:      "Total number of view pulls served from the memoized view.",
		},
	)

	viewSizeRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "income_explorer",
			Name:      "view_size_rows",
			Help:      "Row count of recomputed filtered views.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	chartBuildSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "income_explorer",
			Name:      "chart_build_seconds",
			Help:      "Chart artifact build latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"chart"},
	)

	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "income_explorer",
			Name:      "exports_total",
			Help:      "Total exports served, partitioned by format and outcome.",
		},
		[]string{"format", "outcome"},
	)

	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "income_explorer",
			Name:      "sessions_active",
			Help:      "Number of live exploration sessions.",
		},
	)
)

// Register attaches income-explorer collectors to the supplied
// Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		viewRecomputationsTotal,
		viewCacheHitsTotal,
		viewSizeRows,
		chartBuildSeconds,
		exportsTotal,
		sessionsActive,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// EngineObserver adapts the collectors to the filter engine's
// telemetry hooks. One shared instance serves every session.
type EngineObserver struct{}

// ViewRecomputed records one recomputation and its result size.
func (EngineObserver) ViewRecomputed(size int) {
	viewRecomputationsTotal.Inc()
	viewSizeRows.Observe(float64(size))
}

// ViewCacheHit records a pull served from the memoized view.
func (EngineObserver) ViewCacheHit() {
	viewCacheHitsTotal.Inc()
}

// ObserveChartBuild records how long one chart artifact took.
func ObserveChartBuild(chart string, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	chartBuildSeconds.WithLabelValues(chart).Observe(duration.Seconds())
}

// ObserveExport records an export request outcome.
func ObserveExport(format, outcome string) {
	if outcome != OutcomeError {
		outcome = OutcomeSuccess
	}
	exportsTotal.WithLabelValues(format, outcome).Inc()
}

// SetActiveSessions publishes the current live session count.
func SetActiveSessions(n int) {
	sessionsActive.Set(float64(n))
}
