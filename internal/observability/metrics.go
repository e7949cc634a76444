package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// acquisition coordinator.
type Metrics struct {
	RefreshCycles  *prometheus.CounterVec // labels: outcome={success,failure}
	StationFetches *prometheus.CounterVec // labels: station, outcome={ok,http_error,api_error,malformed,no_observations,timeout,other}
	FetchDuration  *prometheus.HistogramVec

	ActiveStation       *prometheus.GaugeVec // 1 for the station serving the active document
	Ready               prometheus.Gauge
	LastRefreshSuccess  prometheus.Gauge
	ConsecutiveFailures prometheus.Gauge // cycles in a row with no working station

	// Kafka snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all coordinator metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pws_weather",
			Name:      "refresh_cycles_total",
			Help:      "Completed refresh cycles by outcome.",
		}, []string{"outcome"}),
		StationFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pws_weather",
			Name:      "station_fetches_total",
			Help:      "Per-station fetch attempts by outcome.",
		}, []string{"station", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pws_weather",
			Name:      "station_fetch_duration_seconds",
			Help:      "Duration of one station fetch (current conditions plus forecast).",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"station"}),
		ActiveStation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pws_weather",
			Name:      "active_station",
			Help:      "1 for the station whose document is currently active, 0 otherwise.",
		}, []string{"station"}),
		Ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pws_weather",
			Name:      "ready",
			Help:      "1 once any refresh cycle has succeeded.",
		}),
		LastRefreshSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pws_weather",
			Name:      "last_refresh_success",
			Help:      "1 when the most recent refresh cycle found a working station.",
		}),
		ConsecutiveFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pws_weather",
			Name:      "consecutive_failed_cycles",
			Help:      "Refresh cycles in a row in which every station failed.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pws_weather",
			Name:      "snapshots_published_total",
			Help:      "Conditions snapshots written to the Kafka sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pws_weather",
			Name:      "snapshot_publish_errors_total",
			Help:      "Failed snapshot writes to the Kafka sink.",
		}),
	}

	prometheus.MustRegister(
		m.RefreshCycles,
		m.StationFetches,
		m.FetchDuration,
		m.ActiveStation,
		m.Ready,
		m.LastRefreshSuccess,
		m.ConsecutiveFailures,
		m.SnapshotsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshCycles:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "pws_weather", Name: "refresh_cycles_total"}, []string{"outcome"}),
		StationFetches:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "pws_weather", Name: "station_fetches_total"}, []string{"station", "outcome"}),
		FetchDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "pws_weather", Name: "station_fetch_duration_seconds"}, []string{"station"}),
		ActiveStation:       prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "pws_weather", Name: "active_station"}, []string{"station"}),
		Ready:               prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pws_weather", Name: "ready"}),
		LastRefreshSuccess:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pws_weather", Name: "last_refresh_success"}),
		ConsecutiveFailures: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pws_weather", Name: "consecutive_failed_cycles"}),
		SnapshotsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pws_weather", Name: "snapshots_published_total"}),
		PublishErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pws_weather", Name: "snapshot_publish_errors_total"}),
	}
}
