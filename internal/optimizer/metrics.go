package optimizer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// optimizationDuration tracks the time taken for optimization runs.
	optimizationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimizer_run_duration_seconds",
		Help:    "Time taken for an optimization run by strategy",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
	}, []string{"strategy"})

	// optimizationErrors tracks optimization failures by error kind.
	optimizationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_run_errors_total",
		Help: "Total number of optimization failures by kind",
	}, []string{"kind"})

	// basketSize tracks the distribution of requested item counts.
	basketSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_basket_items_count",
		Help:    "Number of items in optimization requests",
		Buckets: []float64{1, 5, 10, 20, 50, 100},
	})

	// datasetRows tracks the size of the built price dataset.
	datasetRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_dataset_rows_count",
		Help:    "Number of price dataset rows per request",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
	})

	// routesEnumerated tracks candidate route counts per strategy.
	routesEnumerated = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimizer_routes_enumerated_count",
		Help:    "Number of candidate routes enumerated by strategy",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
	}, []string{"strategy"})

	// planSavings tracks the savings of produced plans in minor units.
	planSavings = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_plan_savings_cents",
		Help:    "Savings of produced plans versus the single-store baseline",
		Buckets: []float64{0, 100, 500, 1000, 2500, 5000, 10000},
	})

	// planStoreCount tracks how many stores winning plans visit.
	planStoreCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_plan_store_count",
		Help:    "Number of store stops in produced plans",
		Buckets: []float64{1, 2, 3, 4, 5},
	})
)

// MetricsRecorder provides methods to record optimizer metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordRun records a completed optimization run.
func (m *MetricsRecorder) RecordRun(strategy string, duration time.Duration) {
	optimizationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordError records an optimization failure by error kind.
func (m *MetricsRecorder) RecordError(kind string) {
	optimizationErrors.WithLabelValues(kind).Inc()
}

// RecordBasketSize records the number of requested items.
func (m *MetricsRecorder) RecordBasketSize(size int) {
	basketSize.Observe(float64(size))
}

// RecordDatasetRows records the size of the built dataset.
func (m *MetricsRecorder) RecordDatasetRows(rows int) {
	datasetRows.Observe(float64(rows))
}

// RecordRoutesEnumerated records the candidate count for a strategy.
func (m *MetricsRecorder) RecordRoutesEnumerated(strategy string, count int) {
	routesEnumerated.WithLabelValues(strategy).Observe(float64(count))
}

// RecordPlan records the headline numbers of a produced plan.
func (m *MetricsRecorder) RecordPlan(savingsCents int64, storeCount int) {
	planSavings.Observe(float64(savingsCents))
	planStoreCount.Observe(float64(storeCount))
}
