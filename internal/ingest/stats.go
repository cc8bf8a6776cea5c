package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ingestStats = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "ingest_stats",
	Help: "Stats about the last indexed corpus",
}, []string{"metric"})

func RecordStats(s Summary) {
	ingestStats.WithLabelValues("words").Set(float64(s.Words))
	ingestStats.WithLabelValues("triplets").Set(float64(s.Triplets))
	ingestStats.WithLabelValues("skipped").Set(float64(s.Skipped))
	ingestStats.WithLabelValues("unique").Set(float64(s.Unique))
	ingestStats.WithLabelValues("grows").Set(float64(s.Grows))
	ingestStats.WithLabelValues("elapsed_seconds").Set(s.Elapsed.Seconds())

	ingestStats.WithLabelValues("capacity").Set(float64(s.Stats.Capacity))
	ingestStats.WithLabelValues("max_probe_distance").Set(float64(s.Stats.MaxProbeDistance))
	ingestStats.WithLabelValues("mean_probe_distance").Set(s.Stats.MeanProbeDistance)
	ingestStats.WithLabelValues("arena_reserved_bytes").Set(float64(s.Stats.Arena.ReservedBytes))
}
