package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every dashboard metric
const Namespace = "edadash"

var (
	PlotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "plots_total",
		Help:      "Plot requests by kind and outcome (rendered, skipped)",
	}, []string{"kind", "status"})
	PlotErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "plot_errors_total",
		Help:      "Plot requests that failed, by kind and error code",
	}, []string{"kind", "code"})
	IngestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "ingestions_total",
		Help:      "Dataset loads by source (upload, default) and result (ok, error)",
	}, []string{"source", "result"})
	IngestionSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "ingestion_seconds",
		Help:      "Time spent parsing a dataset",
		Buckets:   prometheus.DefBuckets,
	}, []string{"format"})
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "active_sessions",
		Help:      "Sessions currently held in memory",
	})
)
