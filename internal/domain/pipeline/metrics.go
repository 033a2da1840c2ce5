package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes import counters. A nil *Metrics is valid and records
// nothing, so callers without an observability stack skip the wiring.
type Metrics struct {
	importsStarted   prometheus.Counter
	importsFinished  *prometheus.CounterVec // label: status
	rowsProcessed    prometheus.Counter
	rowsRejected     prometheus.Counter
	duplicatesFound  *prometheus.CounterVec // label: class
	importDurationMs prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		importsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "statement_imports_started_total",
			Help: "Import calls started.",
		}),
		importsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_imports_finished_total",
			Help: "Import calls finished, by terminal status.",
		}, []string{"status"}),
		rowsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "statement_import_rows_processed_total",
			Help: "Data rows considered across all imports.",
		}),
		rowsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "statement_import_rows_rejected_total",
			Help: "Rows rejected by parsing or validation.",
		}),
		duplicatesFound: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_import_duplicates_total",
			Help: "Transactions classified as duplicates, by class.",
		}, []string{"class"}),
		importDurationMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "statement_import_duration_milliseconds",
			Help:    "Wall time of one import call.",
			Buckets: prometheus.ExponentialBuckets(5, 4, 8),
		}),
	}
}

func (m *Metrics) started() {
	if m != nil {
		m.importsStarted.Inc()
	}
}

func (m *Metrics) finished(status string, durationMs float64) {
	if m != nil {
		m.importsFinished.WithLabelValues(status).Inc()
		m.importDurationMs.Observe(durationMs)
	}
}

func (m *Metrics) rows(processed, rejected int) {
	if m != nil {
		m.rowsProcessed.Add(float64(processed))
		m.rowsRejected.Add(float64(rejected))
	}
}

func (m *Metrics) duplicate(class string) {
	if m != nil {
		m.duplicatesFound.WithLabelValues(class).Inc()
	}
}
