package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthzDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evstation_authz_decisions_total",
		Help: "Ownership decisions partitioned by principal role and outcome",
	}, []string{"role", "outcome"})

	StationOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evstation_station_operations_total",
		Help: "Station lifecycle operations partitioned by operation and outcome",
	}, []string{"operation", "outcome"})

	ActiveStations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "evstation_active_stations",
		Help: "Active stations seen by the last unfiltered listing",
	})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evstation_cache_lookups_total",
		Help: "Station cache lookups partitioned by result",
	}, []string{"result"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evstation_events_published_total",
		Help: "Domain events published partitioned by subject and status",
	}, []string{"subject", "status"})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "evstation_database_latency_seconds",
		Help:    "Latency of repository calls",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveAuthzDecision(role, outcome string) {
	AuthzDecisionsTotal.WithLabelValues(role, outcome).Inc()
}

func ObserveStationOperation(operation, outcome string) {
	StationOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
