// Package metrics provides Prometheus instrumentation for the catalog state
// layer. A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "wikigames"

// Task results used as label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	tasks          *prometheus.CounterVec
	taskDuration   *prometheus.HistogramVec
	rejections     *prometheus.CounterVec
	collectionSize *prometheus.GaugeVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_total",
				Help:      "Asynchronous state tasks by operation and result",
			},
			[]string{"op", "result"},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "task_duration_seconds",
				Help:      "Duration of asynchronous state tasks",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_rejections_total",
				Help:      "Records rejected before reaching the store",
			},
			[]string{"kind"},
		),
		collectionSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "collection_size",
				Help:      "Entries in the in-memory collection",
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(m.tasks, m.taskDuration, m.rejections, m.collectionSize)
	return m
}

// Registry exposes the private registry, e.g. for promhttp or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveTask records one finished task.
func (m *Metrics) ObserveTask(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.tasks.WithLabelValues(op, result).Inc()
	m.taskDuration.WithLabelValues(op).Observe(d.Seconds())
}

// Rejected counts a record of the given kind that failed validation.
func (m *Metrics) Rejected(kind string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(kind).Inc()
}

// SetCollectionSize records the current size of a collection.
func (m *Metrics) SetCollectionSize(kind string, n int) {
	if m == nil {
		return
	}
	m.collectionSize.WithLabelValues(kind).Set(float64(n))
}

// Tasks returns the counter for one op/result pair.
func (m *Metrics) Tasks(op, result string) prometheus.Counter {
	return m.tasks.WithLabelValues(op, result)
}

// CollectionSize returns the gauge for one kind.
func (m *Metrics) CollectionSize(kind string) prometheus.Gauge {
	return m.collectionSize.WithLabelValues(kind)
}

// WriteText writes every gathered metric family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
