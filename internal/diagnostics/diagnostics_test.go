package diagnostics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votedesk/internal/offchain"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

type stubProbe struct {
	healthErr error
	ledgerErr error
	mode      string
	wallet    domain.Address
	admin     bool
}

func (p stubProbe) Health(context.Context) (*offchain.HealthStatus, error) {
	if p.healthErr != nil {
		return nil, p.healthErr
	}
	return &offchain.HealthStatus{Status: "ok", Service: "offchain"}, nil
}

func (p stubProbe) Wallet() (domain.Address, bool) { return p.wallet, !p.wallet.IsNil() }
func (p stubProbe) IsAdmin() bool                  { return p.admin }
func (p stubProbe) LedgerMode() string             { return p.mode }

func (p stubProbe) LedgerReachable(context.Context) error { return p.ledgerErr }

func (p stubProbe) Environment() Environment {
	return Environment{APIBaseURL: "http://localhost:5000/api", DummyLedger: p.mode == "simulated"}
}

func TestCollectHealthy(t *testing.T) {
	wallet := domain.MustAddress("0xABC0000000000000000000000000000000000123")
	r := Collect(context.Background(), stubProbe{mode: "simulated", wallet: wallet, admin: true})

	assert.True(t, r.Healthy())
	assert.True(t, r.API.OK)
	assert.Equal(t, "offchain ok", r.API.Detail)
	assert.True(t, r.Ledger.OK)
	assert.True(t, r.WalletConnected)
	assert.Equal(t, wallet, r.WalletAddress)
	assert.True(t, r.IsAdmin)
	assert.True(t, r.Environment.DummyLedger)
	assert.False(t, r.CollectedAt.IsZero())
}

func TestCollectRecordsFailuresAsFields(t *testing.T) {
	r := Collect(context.Background(), stubProbe{
		mode:      "contract",
		healthErr: dErrors.New(dErrors.CodeNetworkUnreachable, "connection refused"),
		ledgerErr: errors.New("dial tcp: timeout"),
	})

	require.False(t, r.Healthy())
	assert.False(t, r.API.OK)
	assert.Equal(t, "connection refused", r.API.Error)
	assert.Equal(t, string(dErrors.CodeNetworkUnreachable), r.API.ErrorCode)
	assert.False(t, r.Ledger.OK)
	assert.Equal(t, "dial tcp: timeout", r.Ledger.Error)
	assert.False(t, r.WalletConnected)
}

func TestCollectWithoutLedger(t *testing.T) {
	r := Collect(context.Background(), stubProbe{})

	assert.True(t, r.Healthy())
	assert.Equal(t, "not configured", r.Ledger.Detail)
	assert.Empty(t, r.LedgerMode)
}
