package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordOnIsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLedgerAttempt("verify_voter", "failed")
	m.ObserveLedgerAttempt("verify_voter", "failed")
	m.ObserveOutcome("verify_voter", "partial_ledger_failure")
	m.ObserveLedgerSkipped("add_candidate", "not_configured")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerAttempts.WithLabelValues("verify_voter", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OffchainOutcomes.WithLabelValues("verify_voter", "partial_ledger_failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LedgerSkipped.WithLabelValues("add_candidate", "not_configured")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLedgerAttempt("verify_voter", "succeeded")
		m.ObserveOutcome("verify_voter", "committed")
		m.ObserveLatency("verify_voter", 0.1)
		m.ObserveWalletConnection("connected")
	})
}
