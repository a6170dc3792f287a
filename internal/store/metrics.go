package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	categoryItems     *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the store metrics with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grocery_store_operations_total",
				Help: "Total number of store operations by outcome",
			},
			[]string{"operation", "category", "status"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grocery_store_operation_duration_milliseconds",
				Help:    "Store operation duration in milliseconds, gateway round trips included",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"operation"},
		),
		categoryItems: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "grocery_store_category_items",
				Help: "Current number of items held per category",
			},
			[]string{"category"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "store_operation":
		m.operationsTotal.WithLabelValues(tags["operation"], tags["category"], tags["status"]).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	m.operationDuration.WithLabelValues(name).Observe(float64(duration.Milliseconds()))
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "category_items":
		if category := tags["category"]; category != "" {
			m.categoryItems.WithLabelValues(category).Set(value)
		}
	}
}

type noopMetrics struct{}

// NewNoopMetrics returns a recorder that drops everything
func NewNoopMetrics() MetricsRecorderInterface {
	return noopMetrics{}
}

func (noopMetrics) IncrementCounter(string, map[string]string) {}
func (noopMetrics) RecordProcessingTime(string, time.Duration) {}
func (noopMetrics) RecordGauge(string, float64, map[string]string) {}
