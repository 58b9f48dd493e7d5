package session

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"votedesk/internal/coordinator"
	"votedesk/internal/diagnostics"
	"votedesk/internal/identity"
	"votedesk/internal/ledger"
	"votedesk/internal/offchain"
	"votedesk/internal/offchain/backend"
	"votedesk/internal/platform/config"
	"votedesk/internal/platform/logger"
	"votedesk/pkg/domain"
)

const (
	adminHex  = "0xABC0000000000000000000000000000000000123"
	walletHex = "0xabc0000000000000000000000000000000000123"
	voterHex  = "0xDEF0000000000000000000000000000000000456"
)

type SessionSuite struct {
	suite.Suite
	ctx    context.Context
	store  *backend.Store
	server *httptest.Server
	cfg    config.Config
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = backend.NewStore()
	h, err := backend.New(s.store, domain.MustAddress(adminHex),
		backend.WithLogger(logger.Discard()),
		backend.WithRegistry(prometheus.NewRegistry()),
	)
	s.Require().NoError(err)
	s.server = httptest.NewServer(h.Router())

	s.cfg = config.Config{
		APIBaseURL:             s.server.URL + "/api",
		AdminAddress:           adminHex,
		WalletAddress:          walletHex,
		DummyLedger:            true,
		HTTPTimeout:            5 * time.Second,
		LedgerFailureThreshold: 3,
	}
}

func (s *SessionSuite) TearDownTest() {
	s.server.Close()
}

func (s *SessionSuite) newSession(cfg config.Config, opts ...Option) *Session {
	sess, err := New(s.ctx, cfg, append([]Option{WithLogger(logger.Discard())}, opts...)...)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = sess.Close() })
	return sess
}

func (s *SessionSuite) register(addr domain.Address) {
	_, err := s.store.RegisterVoter(s.ctx, offchain.VoterRegistration{Address: addr, Name: "Voter", NationalID: "N-1"})
	s.Require().NoError(err)
}

func (s *SessionSuite) TestVerifyVoterEndToEndInDummyMode() {
	sess := s.newSession(s.cfg)
	voter := domain.MustAddress(voterHex)
	s.register(voter)

	addr, err := sess.Connect(s.ctx)
	s.Require().NoError(err)
	s.Equal(domain.MustAddress(walletHex), addr)
	s.True(sess.Resolver.IsAdmin(), "admin match is case-insensitive")
	s.Equal(ledger.ModeSimulated, sess.LedgerMode())

	res, err := sess.Coordinator.VerifyVoter(s.ctx, voter)
	s.Require().NoError(err)
	s.Equal(coordinator.OutcomeCommitted, res.Outcome)
	s.Equal(coordinator.LedgerSucceeded, res.Ledger)
	s.NotEmpty(res.TxHash)
	s.Equal("Voter verified successfully", res.Message)

	logs, err := sess.Facade.Logs(s.ctx, offchain.LogFilter{Action: offchain.ActionVerifyVoter})
	s.Require().NoError(err)
	s.Require().Len(logs.Logs, 1)
	entry := logs.Logs[0]
	s.Equal(offchain.StatusSuccess, entry.Status)
	s.Equal(voter.String(), entry.Target)
	s.Equal(res.TxHash, entry.TxHash)
	s.Equal(offchain.LedgerSucceeded, entry.Metadata["ledger_status"])
	s.Equal(res.LogID, entry.ID)

	status, err := sess.Facade.VoterStatus(s.ctx, voter)
	s.Require().NoError(err)
	s.True(status.Verified)
}

func (s *SessionSuite) TestScheduleElectionWithStartAfterEnd() {
	sess := s.newSession(s.cfg)
	_, err := sess.Connect(s.ctx)
	s.Require().NoError(err)

	res, err := sess.Coordinator.ScheduleElection(s.ctx, ledger.ElectionSpec{
		ID: 10, Name: "Backwards", StartTime: 2_000_000_000, EndTime: 1_000_000_000,
	})

	s.Require().NoError(err)
	s.True(res.OK())
	s.Equal("Election scheduled successfully", res.Message)
}

func (s *SessionSuite) TestWithoutWalletProvider() {
	cfg := s.cfg
	cfg.WalletAddress = ""
	cfg.DummyLedger = false
	sess := s.newSession(cfg)

	_, err := sess.Connect(s.ctx)
	s.ErrorIs(err, identity.ErrProviderUnavailable)

	_, err = sess.Coordinator.VerifyVoter(s.ctx, domain.MustAddress(voterHex))
	s.ErrorIs(err, coordinator.ErrNotConnected)
}

func (s *SessionSuite) TestDummyModeNeverDialsTheWallet() {
	var hits atomic.Int32
	rpc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":["` + voterHex + `"]}`))
	}))
	defer rpc.Close()

	s.Run("rpc wallet is ignored in favour of the admin", func() {
		cfg := s.cfg
		cfg.WalletAddress = ""
		cfg.WalletRPCURL = rpc.URL
		sess := s.newSession(cfg)

		addr, err := sess.Connect(s.ctx)

		s.Require().NoError(err)
		s.Equal(domain.MustAddress(adminHex), addr)
		s.True(sess.IsAdmin())
	})

	s.Run("private key is ignored", func() {
		cfg := s.cfg
		cfg.WalletAddress = ""
		cfg.WalletPrivateKey = "zz"
		sess := s.newSession(cfg)

		addr, err := sess.Connect(s.ctx)

		s.Require().NoError(err)
		s.Equal(domain.MustAddress(adminHex), addr)
	})

	s.Run("no admin falls back to the dummy account", func() {
		cfg := s.cfg
		cfg.WalletAddress = ""
		cfg.AdminAddress = ""
		cfg.WalletRPCURL = rpc.URL
		sess := s.newSession(cfg)

		addr, err := sess.Connect(s.ctx)

		s.Require().NoError(err)
		s.Equal(domain.MustAddress(DummyAccount), addr)
		s.False(sess.IsAdmin())
	})

	s.Run("configured wallet still wins", func() {
		cfg := s.cfg
		cfg.WalletAddress = voterHex
		cfg.WalletRPCURL = rpc.URL
		sess := s.newSession(cfg)

		addr, err := sess.Connect(s.ctx)

		s.Require().NoError(err)
		s.Equal(domain.MustAddress(voterHex), addr)
	})

	s.Zero(hits.Load(), "dummy mode must not reach the wallet endpoint")
}

func (s *SessionSuite) TestNonAdminWalletIsRefused() {
	cfg := s.cfg
	cfg.WalletAddress = voterHex
	sess := s.newSession(cfg)
	_, err := sess.Connect(s.ctx)
	s.Require().NoError(err)

	s.False(sess.IsAdmin())
	_, err = sess.Coordinator.VerifyVoter(s.ctx, domain.MustAddress(voterHex))
	s.ErrorIs(err, coordinator.ErrNotAdmin)
}

func (s *SessionSuite) TestDevModeAdmitsAnyWallet() {
	cfg := s.cfg
	cfg.WalletAddress = voterHex
	cfg.DevMode = true
	sess := s.newSession(cfg)
	_, err := sess.Connect(s.ctx)
	s.Require().NoError(err)

	s.True(sess.IsAdmin())
}

func (s *SessionSuite) TestNoLedgerConfigured() {
	cfg := s.cfg
	cfg.DummyLedger = false
	sess := s.newSession(cfg)
	s.Empty(sess.LedgerMode())
	voter := domain.MustAddress(voterHex)
	s.register(voter)
	_, err := sess.Connect(s.ctx)
	s.Require().NoError(err)

	res, err := sess.Coordinator.VerifyVoter(s.ctx, voter)

	s.Require().NoError(err)
	s.Equal(coordinator.LedgerSkipped, res.Ledger)
	s.Equal(coordinator.OutcomeCommitted, res.Outcome)
}

func (s *SessionSuite) TestInvalidConfig() {
	cfg := s.cfg
	cfg.AdminAddress = "not-an-address"
	_, err := New(s.ctx, cfg, WithLogger(logger.Discard()))
	s.Error(err)

	cfg = s.cfg
	cfg.APIBaseURL = "localhost:5000"
	_, err = New(s.ctx, cfg, WithLogger(logger.Discard()))
	s.Error(err)

	cfg = s.cfg
	cfg.WalletAddress = ""
	cfg.WalletPrivateKey = "zz"
	cfg.DummyLedger = false
	_, err = New(s.ctx, cfg, WithLogger(logger.Discard()))
	s.Error(err)
}

func (s *SessionSuite) TestCloseIsIdempotent() {
	sess := s.newSession(s.cfg)
	_, err := sess.Connect(s.ctx)
	s.Require().NoError(err)

	s.NoError(sess.Close())
	s.NoError(sess.Close())
	_, connected := sess.Wallet()
	s.False(connected)
}

func (s *SessionSuite) TestDiagnostics() {
	sess := s.newSession(s.cfg)
	_, err := sess.Connect(s.ctx)
	s.Require().NoError(err)

	r := diagnostics.Collect(s.ctx, sess)

	s.True(r.Healthy())
	s.True(r.API.OK)
	s.True(r.IsAdmin)
	s.Equal(ledger.ModeSimulated, r.LedgerMode)
	s.Equal(s.server.URL+"/api", r.Environment.APIBaseURL)
	s.Equal(domain.MustAddress(adminHex).String(), r.Environment.AdminAddress)
}

func (s *SessionSuite) TestConfigWarningsAreLoggedAndReported() {
	var buf bytes.Buffer
	cfg := s.cfg
	cfg.Warnings = []string{`VOTEDESK_HTTP_TIMEOUT="soon" is invalid, using 15s`}

	sess, err := New(s.ctx, cfg, WithLogger(logger.NewWithWriter(&buf, slog.LevelInfo)))
	s.Require().NoError(err)
	defer sess.Close()

	s.Contains(buf.String(), "configuration value ignored")
	s.Contains(buf.String(), "VOTEDESK_HTTP_TIMEOUT")
	s.Equal(cfg.Warnings, diagnostics.Collect(s.ctx, sess).Environment.ConfigWarnings)
}
