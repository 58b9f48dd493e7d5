package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AdminActions *prometheus.CounterVec
	Voters       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AdminActions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "offchain_admin_actions_total",
			Help: "Administrative actions recorded in the admin log",
		}, []string{"action", "status", "ledger_status"}),
		Voters: f.NewGauge(prometheus.GaugeOpts{
			Name: "offchain_registered_voters",
			Help: "Registered voters in the store",
		}),
	}
}

func (m *Metrics) observeAction(action, status, ledgerStatus string) {
	if m == nil {
		return
	}
	m.AdminActions.WithLabelValues(action, status, ledgerStatus).Inc()
}

func (m *Metrics) setVoters(n int) {
	if m == nil {
		return
	}
	m.Voters.Set(float64(n))
}
