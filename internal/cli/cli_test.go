package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"votedesk/internal/offchain"
	"votedesk/internal/offchain/backend"
	"votedesk/internal/platform/config"
	"votedesk/internal/platform/logger"
	"votedesk/internal/session"
	"votedesk/pkg/domain"
)

const adminHex = "0xABC0000000000000000000000000000000000123"

type CLISuite struct {
	suite.Suite
	ctx    context.Context
	store  *backend.Store
	server *httptest.Server
	cfg    config.Config
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func TestCLISuite(t *testing.T) {
	color.NoColor = true
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.ctx = context.Background()
	s.store = backend.NewStore()
	s.Require().NoError(backend.SeedVoters(s.ctx, s.store, 25))
	h, err := backend.New(s.store, domain.MustAddress(adminHex),
		backend.WithLogger(logger.Discard()),
		backend.WithRegistry(prometheus.NewRegistry()),
	)
	s.Require().NoError(err)
	s.server = httptest.NewServer(h.Router())
	s.cfg = config.Config{
		APIBaseURL:             s.server.URL + "/api",
		AdminAddress:           adminHex,
		WalletAddress:          adminHex,
		DummyLedger:            true,
		HTTPTimeout:            5 * time.Second,
		LedgerFailureThreshold: 3,
	}
	s.stdout = &bytes.Buffer{}
	s.stderr = &bytes.Buffer{}
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

func (s *CLISuite) run(args ...string) int {
	s.stdout.Reset()
	s.stderr.Reset()
	cfg := s.cfg
	app := New(s.stdout, s.stderr, func(ctx context.Context) (*session.Session, error) {
		return session.New(ctx, cfg, session.WithLogger(logger.Discard()))
	})
	return app.Run(s.ctx, args)
}

func (s *CLISuite) TestUsage() {
	s.Equal(2, s.run())
	s.Contains(s.stderr.String(), "usage: votedesk")
	s.Contains(s.stderr.String(), "add-candidate")

	s.Equal(0, s.run("help"))

	s.Equal(2, s.run("launch"))
	s.Contains(s.stderr.String(), `unknown command "launch"`)
}

func (s *CLISuite) TestVerify() {
	voter := backend.SeedAddress(4)

	s.Require().Equal(0, s.run("verify", voter.String()), s.stderr.String())
	s.Contains(s.stdout.String(), "✓ Voter verified successfully")
	s.Contains(s.stdout.String(), "tx 0x")

	s.Equal(1, s.run("verify", voter.String()))
	s.Contains(s.stderr.String(), "voter already verified")
}

func (s *CLISuite) TestLogsJSON() {
	s.Require().Equal(0, s.run("verify", backend.SeedAddress(1).String()))

	s.Require().Equal(0, s.run("logs", "-action", "verify_voter", "-status", "success", "-json"), s.stderr.String())

	var page offchain.LogPage
	s.Require().NoError(json.Unmarshal(s.stdout.Bytes(), &page))
	s.Require().Len(page.Logs, 1)
	s.Equal(offchain.ActionVerifyVoter, page.Logs[0].Action)
}

func (s *CLISuite) TestLogsRejectsUnknownFilter() {
	s.Equal(1, s.run("logs", "-action", "DROP"))
	s.Contains(s.stderr.String(), "validation_failed")
}

func (s *CLISuite) TestVotersPagination() {
	s.Require().Equal(0, s.run("voters", "-verified", "false", "-page", "3"), s.stderr.String())

	s.Contains(s.stdout.String(), "page 3 of 3, 25 total")
}

func (s *CLISuite) TestDashboard() {
	s.Require().Equal(0, s.run("dashboard"), s.stderr.String())

	out := s.stdout.String()
	s.Contains(out, "offchain ok")
	s.Contains(out, "Stats")
	s.Contains(out, "History")
}

func (s *CLISuite) TestScheduleAcceptsStartAfterEnd() {
	code := s.run("schedule", "-id", "7", "-name", "Backwards",
		"-start", "2026-03-02T00:00:00Z", "-end", "2026-03-01T00:00:00Z")

	s.Require().Equal(0, code, s.stderr.String())
	s.Contains(s.stdout.String(), "Election scheduled successfully")
}

func (s *CLISuite) TestScheduleRequiresAnID() {
	s.Equal(1, s.run("schedule", "-name", "No id", "-start", "1700000000", "-end", "1800000000"))
	s.Contains(s.stderr.String(), "election id is required")
	s.Zero(s.store.Logs(s.ctx, offchain.LogFilter{}).Pagination.Total)
}

func (s *CLISuite) TestScheduleRequiresTimes() {
	s.Equal(1, s.run("schedule", "-id", "7", "-name", "No times"))
	s.Contains(s.stderr.String(), "-start is required")
}

func (s *CLISuite) TestCatalog() {
	s.Require().Equal(0, s.run("elections"))
	s.Contains(s.stdout.String(), "General Election 2025")

	s.Require().Equal(0, s.run("candidates", "1"))
	s.Contains(s.stdout.String(), "Asha Raman")

	s.Require().Equal(0, s.run("add-candidate", "-election", "1", "-name", "New Face", "-info", "Independent"), s.stderr.String())
	s.Contains(s.stdout.String(), "Candidate added successfully")
}

func (s *CLISuite) TestAdminCommandsRefuseOtherWallets() {
	s.cfg.WalletAddress = backend.SeedAddress(9).String()

	s.Equal(1, s.run("verify", backend.SeedAddress(2).String()))
	s.Contains(s.stderr.String(), "not the administrator")
}

func (s *CLISuite) TestAdminCommandsNeedAWallet() {
	s.cfg.WalletAddress = ""
	s.cfg.DummyLedger = false

	s.Equal(1, s.run("stats"))
	s.Contains(s.stderr.String(), "provider_unavailable")
}

func (s *CLISuite) TestDiagnosticsWithoutWallet() {
	s.cfg.WalletAddress = ""
	s.cfg.DummyLedger = false

	s.Require().Equal(0, s.run("diagnostics"), s.stderr.String())
	out := s.stdout.String()
	s.Contains(out, "not connected")
	s.Contains(out, "not configured")
}

func (s *CLISuite) TestDummyModeConnectsAsAdminWithoutWallet() {
	s.cfg.WalletAddress = ""
	s.cfg.Warnings = []string{`VOTEDESK_LEDGER_FAILURE_THRESHOLD="x" is invalid, using 3`}

	s.Require().Equal(0, s.run("diagnostics"), s.stderr.String())
	out := s.stdout.String()
	s.Contains(out, domain.MustAddress(adminHex).String())
	s.Contains(out, "simulated")
	s.Contains(out, "config warning")
	s.Contains(out, "VOTEDESK_LEDGER_FAILURE_THRESHOLD")

	s.Require().Equal(0, s.run("stats"), s.stderr.String())
}

func (s *CLISuite) TestRegisterUploadAndShow() {
	addr := "0x2222222222222222222222222222222222222222"
	s.Require().Equal(0, s.run("register", "-address", addr, "-name", "Ada Lovelace",
		"-national-id", "N-1815", "-dob", "1815-12-10", "-city", "London"), s.stderr.String())
	s.Contains(s.stdout.String(), "Voter registered successfully")

	path := filepath.Join(s.T().TempDir(), "passport.pdf")
	s.Require().NoError(os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	s.Require().Equal(0, s.run("upload", "-address", addr, "-file", path), s.stderr.String())
	s.Contains(s.stdout.String(), "passport.pdf uploaded")

	s.Require().Equal(0, s.run("voter", addr))
	s.Contains(s.stdout.String(), "Ada Lovelace")
	s.Contains(s.stdout.String(), "London")
}

func (s *CLISuite) TestBadFlag() {
	s.Equal(1, s.run("history", "-days", "many"))
	s.Equal(0, s.run("history", "-h"))
}
