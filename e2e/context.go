package e2e

import (
	"context"
	"errors"
	"net/http/httptest"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"votedesk/internal/coordinator"
	"votedesk/internal/ledger/simulated"
	"votedesk/internal/offchain"
	"votedesk/internal/offchain/backend"
	"votedesk/internal/platform/config"
	"votedesk/internal/platform/logger"
	"votedesk/internal/session"
	"votedesk/pkg/domain"
)

// TestContext holds state between steps of one scenario. The off-chain backend runs
// in-process; the session talks to it over HTTP.
type TestContext struct {
	store  *backend.Store
	server *httptest.Server
	cfg    config.Config
	opts   []session.Option
	sess   *session.Session

	result coordinator.Result
	err    error
	voters *offchain.VoterPage
	logs   *offchain.LogPage
	filter offchain.LogFilter
}

func NewTestContext() *TestContext {
	return &TestContext{}
}

func (tc *TestContext) Reset() {
	tc.Close()
	*tc = TestContext{
		cfg: config.Config{
			DummyLedger:            true,
			HTTPTimeout:            5 * time.Second,
			LedgerFailureThreshold: 3,
		},
	}
}

func (tc *TestContext) Close() {
	if tc.sess != nil {
		_ = tc.sess.Close()
		tc.sess = nil
	}
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
}

func (tc *TestContext) startBackend(admin string) error {
	addr, err := domain.ParseAddress(admin)
	if err != nil {
		return err
	}
	tc.store = backend.NewStore()
	h, err := backend.New(tc.store, addr,
		backend.WithLogger(logger.Discard()),
		backend.WithRegistry(prometheus.NewRegistry()),
	)
	if err != nil {
		return err
	}
	tc.server = httptest.NewServer(h.Router())
	tc.cfg.APIBaseURL = tc.server.URL + "/api"
	tc.cfg.AdminAddress = admin
	return nil
}

func (tc *TestContext) failingLedger() {
	tc.opts = append(tc.opts, session.WithLedger(simulated.New(
		simulated.WithFailure(errors.New("execution reverted")),
	)))
}

func (tc *TestContext) connect(ctx context.Context, wallet string) error {
	if tc.server == nil {
		return errors.New("backend is not running")
	}
	tc.cfg.WalletAddress = wallet
	sess, err := session.New(ctx, tc.cfg, append([]session.Option{session.WithLogger(logger.Discard())}, tc.opts...)...)
	if err != nil {
		return err
	}
	tc.sess = sess
	_, err = sess.Connect(ctx)
	return err
}

func (tc *TestContext) currentSession() (*session.Session, error) {
	if tc.sess == nil {
		return nil, errors.New("no wallet connected in this scenario")
	}
	return tc.sess, nil
}
