// Package metrics provides Prometheus instrumentation for flow execution,
// wired in as an optional companion to flow/emit rather than folded into
// the scheduler itself.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus-compatible counters, histograms, and gauges for
// a Flow's execution, all namespaced "flowkit_".
//
//  1. hop_latency_ms (histogram): a single node's Run duration.
//     Labels: node_id, status (success/error).
//  2. hops_total (counter): completed hops.
//     Labels: node_id, label.
//  3. max_steps_reached_total (counter): runs that hit the soft step cap.
//  4. fanout_inflight (gauge): branches currently executing inside All.
//  5. run_errors_total (counter): unhandled node errors.
//     Labels: node_id.
type Metrics struct {
	hopLatency     *prometheus.HistogramVec
	hopsTotal      *prometheus.CounterVec
	maxStepsHits   prometheus.Counter
	fanoutInflight prometheus.Gauge
	runErrors      *prometheus.CounterVec

	mu      sync.RWMutex
	enabled bool
}

// New creates and registers flow metrics against registry. A nil registry
// uses prometheus.DefaultRegisterer.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		enabled: true,
		hopLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowkit",
			Name:      "hop_latency_ms",
			Help:      "Duration of a single node invocation in milliseconds.",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"node_id", "status"}),
		hopsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowkit",
			Name:      "hops_total",
			Help:      "Completed scheduler hops.",
		}, []string{"node_id", "label"}),
		maxStepsHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flowkit",
			Name:      "max_steps_reached_total",
			Help:      "Runs that returned early because the step cap was reached.",
		}),
		fanoutInflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowkit",
			Name:      "fanout_inflight",
			Help:      "Branches currently executing inside a Flow.All fan-out.",
		}),
		runErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowkit",
			Name:      "run_errors_total",
			Help:      "Node errors that propagated out of Run uncaught.",
		}, []string{"node_id"}),
	}
}

// RecordHop records one completed hop's latency and label.
func (m *Metrics) RecordHop(nodeID, label string, latency time.Duration, status string) {
	if !m.isEnabled() {
		return
	}
	m.hopLatency.WithLabelValues(nodeID, status).Observe(float64(latency.Milliseconds()))
	m.hopsTotal.WithLabelValues(nodeID, label).Inc()
}

// RecordMaxStepsReached increments the soft-cap counter.
func (m *Metrics) RecordMaxStepsReached() {
	if !m.isEnabled() {
		return
	}
	m.maxStepsHits.Inc()
}

// SetFanOutInflight sets the current number of concurrently running
// fan-out branches.
func (m *Metrics) SetFanOutInflight(n int) {
	if !m.isEnabled() {
		return
	}
	m.fanoutInflight.Set(float64(n))
}

// RecordRunError increments the uncaught-error counter for nodeID.
func (m *Metrics) RecordRunError(nodeID string) {
	if !m.isEnabled() {
		return
	}
	m.runErrors.WithLabelValues(nodeID).Inc()
}

func (m *Metrics) isEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Disable stops metric recording, useful in tests that don't want to share
// a global registry across cases.
func (m *Metrics) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
}

// Enable re-enables metric recording after Disable.
func (m *Metrics) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
}
