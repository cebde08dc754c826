package runtime

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Settlement outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeDetached = "detached"
)

// SignalMetrics tracks transaction and event statistics for a session.
type SignalMetrics struct {
	mu sync.Mutex

	requestsTotal       *prometheus.CounterVec
	settledTotal        *prometheus.CounterVec
	eventsEmittedTotal  *prometheus.CounterVec
	pendingTransactions *prometheus.GaugeVec
	requestDuration     *prometheus.HistogramVec

	registerer prometheus.Registerer
	registered bool
}

// newSignalCounterVec creates a counter vec with the standard sigwire/signal
// namespace.
func newSignalCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sigwire",
			Subsystem: "signal",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewSignalMetrics creates a metrics collector. A nil registerer falls back
// to the Prometheus default.
func NewSignalMetrics(registerer prometheus.Registerer) *SignalMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SignalMetrics{
		registerer:    registerer,
		requestsTotal: newSignalCounterVec("requests_total", "Total number of requests sent on the signaling connection", []string{"plugin"}),
		settledTotal:  newSignalCounterVec("transactions_settled_total", "Total number of transactions settled, by outcome", []string{"plugin", "outcome"}),
		eventsEmittedTotal: newSignalCounterVec("events_emitted_total", "Total number of normalized events broadcast to subscribers", []string{"plugin", "event"}),
		pendingTransactions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "sigwire",
				Subsystem: "signal",
				Name:      "transactions_pending",
				Help:      "Number of in-flight transactions awaiting settlement",
			},
			[]string{"plugin"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sigwire",
				Subsystem: "signal",
				Name:      "request_duration_seconds",
				Help:      "Time from request send to transaction settlement",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"plugin"},
		),
	}
}

// Register registers the Prometheus collectors. Safe to call multiple times.
func (m *SignalMetrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	collectors := []prometheus.Collector{
		m.requestsTotal,
		m.settledTotal,
		m.eventsEmittedTotal,
		m.pendingTransactions,
		m.requestDuration,
	}
	for _, c := range collectors {
		if err := m.registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	m.registered = true
	return nil
}

// RequestStarted records a sent request and its new pending transaction.
func (m *SignalMetrics) RequestStarted(plugin string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(plugin).Inc()
	m.pendingTransactions.WithLabelValues(plugin).Inc()
}

// TransactionSettled records a settlement outcome.
func (m *SignalMetrics) TransactionSettled(plugin, outcome string) {
	if m == nil {
		return
	}
	m.settledTotal.WithLabelValues(plugin, outcome).Inc()
	m.pendingTransactions.WithLabelValues(plugin).Dec()
}

// ObserveRequestDuration records the time a caller spent awaiting settlement.
func (m *SignalMetrics) ObserveRequestDuration(plugin string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(plugin).Observe(elapsed.Seconds())
}

// TransactionsDetached records transactions rejected by a handle detach.
func (m *SignalMetrics) TransactionsDetached(plugin string, count int) {
	if m == nil {
		return
	}
	for i := 0; i < count; i++ {
		m.settledTotal.WithLabelValues(plugin, OutcomeDetached).Inc()
		m.pendingTransactions.WithLabelValues(plugin).Dec()
	}
}

// EventEmitted records a normalized event broadcast to subscribers.
func (m *SignalMetrics) EventEmitted(plugin, event string) {
	if m == nil {
		return
	}
	m.eventsEmittedTotal.WithLabelValues(plugin, event).Inc()
}
