package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for administrative operations.
type Metrics struct {
	LedgerAttempts    *prometheus.CounterVec
	LedgerSkipped     *prometheus.CounterVec
	OffchainOutcomes  *prometheus.CounterVec
	OperationLatency  *prometheus.HistogramVec
	WalletConnections *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil registerer falls back to
// the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		LedgerAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "votedesk_ledger_attempts_total",
			Help: "Ledger write attempts, labeled by operation and outcome",
		}, []string{"operation", "outcome"}),
		LedgerSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "votedesk_ledger_skipped_total",
			Help: "Ledger writes skipped because no ledger was configured or it was unreachable",
		}, []string{"operation", "reason"}),
		OffchainOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "votedesk_offchain_outcomes_total",
			Help: "Administrative operation results, labeled by operation and outcome",
		}, []string{"operation", "outcome"}),
		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "votedesk_operation_latency_seconds",
			Help:    "End-to-end latency of administrative operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		WalletConnections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "votedesk_wallet_connections_total",
			Help: "Wallet connect attempts, labeled by result",
		}, []string{"result"}),
	}
}

// The helpers below are nil-safe so callers can run without metrics.

func (m *Metrics) ObserveLedgerAttempt(operation, outcome string) {
	if m == nil {
		return
	}
	m.LedgerAttempts.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveLedgerSkipped(operation, reason string) {
	if m == nil {
		return
	}
	m.LedgerSkipped.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) ObserveOutcome(operation, outcome string) {
	if m == nil {
		return
	}
	m.OffchainOutcomes.WithLabelValues(operation, outcome).Inc()
}

// ObserveLatency records the latency for a given operation
func (m *Metrics) ObserveLatency(operation string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.OperationLatency.WithLabelValues(operation).Observe(durationSeconds)
}

func (m *Metrics) ObserveWalletConnection(result string) {
	if m == nil {
		return
	}
	m.WalletConnections.WithLabelValues(result).Inc()
}
