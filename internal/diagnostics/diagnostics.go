// Package diagnostics builds the settings report: backend health, wallet state, ledger
// reachability and the effective environment flags.
package diagnostics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"votedesk/internal/offchain"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

// Environment is the effective configuration shown on the report.
type Environment struct {
	APIBaseURL      string `json:"api_base_url"`
	AdminAddress    string `json:"admin_address"`
	DevMode         bool   `json:"dev_mode"`
	DummyLedger     bool   `json:"dummy_ledger"`
	VerboseLogging  bool   `json:"verbose_api_logging"`
	ProductionBuild bool   `json:"production_build"`

	ConfigWarnings []string `json:"config_warnings,omitempty"`
}

// Probe is what Collect inspects. A Session satisfies it.
type Probe interface {
	Health(ctx context.Context) (*offchain.HealthStatus, error)
	Wallet() (domain.Address, bool)
	IsAdmin() bool
	LedgerMode() string
	LedgerReachable(ctx context.Context) error
	Environment() Environment
}

type Check struct {
	OK        bool   `json:"ok"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

type Report struct {
	API             Check          `json:"api"`
	WalletConnected bool           `json:"wallet_connected"`
	WalletAddress   domain.Address `json:"wallet_address,omitempty"`
	IsAdmin         bool           `json:"is_admin"`
	LedgerMode      string         `json:"ledger_mode"`
	Ledger          Check          `json:"ledger"`
	Environment     Environment    `json:"environment"`
	CollectedAt     time.Time      `json:"collected_at"`
}

// Healthy reports whether both backends answered.
func (r Report) Healthy() bool {
	return r.API.OK && (r.LedgerMode == "" || r.Ledger.OK)
}

// DefaultTimeout bounds each network probe.
const DefaultTimeout = 5 * time.Second

// Collect runs the API and ledger probes concurrently. Probe failures are recorded in
// the report and never returned as errors.
func Collect(ctx context.Context, p Probe) Report {
	r := Report{
		LedgerMode:  p.LedgerMode(),
		IsAdmin:     p.IsAdmin(),
		Environment: p.Environment(),
		CollectedAt: time.Now().UTC(),
	}
	r.WalletAddress, r.WalletConnected = p.Wallet()

	var g errgroup.Group
	g.Go(func() error {
		var status *offchain.HealthStatus
		r.API = timed(ctx, func(ctx context.Context) error {
			var err error
			status, err = p.Health(ctx)
			return err
		})
		if status != nil {
			r.API.Detail = status.Service + " " + status.Status
		}
		return nil
	})
	if r.LedgerMode != "" {
		g.Go(func() error {
			r.Ledger = timed(ctx, p.LedgerReachable)
			if r.Ledger.OK {
				r.Ledger.Detail = "reachable"
			}
			return nil
		})
	} else {
		r.Ledger = Check{Detail: "not configured"}
	}
	_ = g.Wait()
	return r
}

func timed(ctx context.Context, fn func(context.Context) error) Check {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	start := time.Now()
	err := fn(ctx)
	c := Check{OK: err == nil, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		c.Error = dErrors.Message(err)
		c.ErrorCode = string(dErrors.CodeOf(err))
	}
	return c
}
