// Package metrics exposes gateway counters and histograms for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "toolgate"

// Metrics holds every gateway collector on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	Dispatches       *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	ApprovalWait     *prometheus.HistogramVec
	PendingApprovals prometheus.Gauge
	CommandDuration  *prometheus.HistogramVec
}

// New creates and registers the gateway collectors together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Dispatched tool calls by tool and outcome.",
		}, []string{"tool", "outcome"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time from dispatch to result, approval wait included.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"tool"}),
		ApprovalWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "approval_wait_seconds",
			Help:      "Time an approval stayed pending, by resolution.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 120},
		}, []string{"resolution"}),
		PendingApprovals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_approvals",
			Help:      "Approvals currently waiting for a decision.",
		}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "effect_duration_seconds",
			Help:      "Execution time of tool effects, approval excluded.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}

	m.registry.MustRegister(
		m.Dispatches,
		m.DispatchDuration,
		m.ApprovalWait,
		m.PendingApprovals,
		m.CommandDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry is the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveDispatch(tool, outcome string, d time.Duration) {
	m.Dispatches.WithLabelValues(tool, outcome).Inc()
	m.DispatchDuration.WithLabelValues(tool).Observe(d.Seconds())
}

func (m *Metrics) ApprovalOpened() {
	m.PendingApprovals.Inc()
}

func (m *Metrics) ApprovalClosed(resolution string, waited time.Duration) {
	m.PendingApprovals.Dec()
	m.ApprovalWait.WithLabelValues(resolution).Observe(waited.Seconds())
}

func (m *Metrics) ObserveEffect(tool string, d time.Duration) {
	m.CommandDuration.WithLabelValues(tool).Observe(d.Seconds())
}
