package hierarchy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rates_hierarchy_snapshot_version",
		Help: "Version of the region closure snapshot currently served.",
	})
	snapshotRegions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rates_hierarchy_regions",
		Help: "Number of regions in the current closure snapshot.",
	})
	snapshotPorts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rates_hierarchy_ports",
		Help: "Number of ports in the current closure snapshot.",
	})
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rates_hierarchy_refresh_total",
		Help: "Closure refresh attempts by result.",
	}, []string{"result"})
	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rates_hierarchy_refresh_duration_seconds",
		Help:    "Time spent loading and building the closure.",
		Buckets: prometheus.DefBuckets,
	})
)

func recordSnapshot(s *Snapshot) {
	stats := s.Stats()
	snapshotVersion.Set(float64(stats.Version))
	snapshotRegions.Set(float64(stats.Regions))
	snapshotPorts.Set(float64(stats.Ports))
}
