package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.T().Setenv("VOTEDESK_ENV_FILE", filepath.Join(s.T().TempDir(), "missing.env"))
}

func (s *ConfigSuite) TestDefaults() {
	cfg := FromEnv()

	s.Equal(DefaultAPIBaseURL, cfg.APIBaseURL)
	s.True(cfg.DummyLedger)
	s.False(cfg.DevMode)
	s.False(cfg.VerboseAPILogging)
	s.Equal(DefaultHTTPTimeout, cfg.HTTPTimeout)
	s.Equal(DefaultLedgerFailureThreshold, cfg.LedgerFailureThreshold)
	s.False(cfg.LedgerConfigured())
	s.Empty(cfg.Warnings)
}

func (s *ConfigSuite) TestOverrides() {
	s.T().Setenv("VOTEDESK_API_BASE_URL", "http://api.internal/v1/")
	s.T().Setenv("VOTEDESK_ADMIN_ADDRESS", " 0xABC0000000000000000000000000000000000123 ")
	s.T().Setenv("VOTEDESK_DUMMY_LEDGER", "false")
	s.T().Setenv("VOTEDESK_VERBOSE_API_LOGGING", "1")
	s.T().Setenv("VOTEDESK_HTTP_TIMEOUT", "2s")
	s.T().Setenv("VOTEDESK_LEDGER_FAILURE_THRESHOLD", "5")
	s.T().Setenv("VOTEDESK_LEDGER_RPC_URL", "http://localhost:8545")
	s.T().Setenv("VOTEDESK_CONTRACT_ADDRESS", "0x0000000000000000000000000000000000000001")

	cfg := FromEnv()

	s.Equal("http://api.internal/v1", cfg.APIBaseURL)
	s.Equal("0xABC0000000000000000000000000000000000123", cfg.AdminAddress)
	s.False(cfg.DummyLedger)
	s.True(cfg.VerboseAPILogging)
	s.Equal(2*time.Second, cfg.HTTPTimeout)
	s.Equal(5, cfg.LedgerFailureThreshold)
	s.True(cfg.LedgerConfigured())
	s.Empty(cfg.Warnings)
}

func (s *ConfigSuite) TestDevModeHonoredOutsideProduction() {
	s.T().Setenv("VOTEDESK_DEV_MODE", "true")

	cfg := FromEnv()

	s.Equal(!ProductionBuild(), cfg.DevMode)
	s.Equal(ProductionBuild(), cfg.DevModeForced)
}

func (s *ConfigSuite) TestInvalidValuesFallBack() {
	s.T().Setenv("VOTEDESK_DUMMY_LEDGER", "maybe")
	s.T().Setenv("VOTEDESK_HTTP_TIMEOUT", "soon")
	s.T().Setenv("VOTEDESK_LEDGER_FAILURE_THRESHOLD", "-2")

	cfg := FromEnv()

	s.True(cfg.DummyLedger)
	s.Equal(DefaultHTTPTimeout, cfg.HTTPTimeout)
	s.Equal(DefaultLedgerFailureThreshold, cfg.LedgerFailureThreshold)
	s.Equal([]string{
		`VOTEDESK_HTTP_TIMEOUT="soon" is invalid, using 15s`,
		`VOTEDESK_LEDGER_FAILURE_THRESHOLD="-2" is invalid, using 3`,
		`VOTEDESK_DUMMY_LEDGER="maybe" is invalid, using true`,
	}, cfg.Warnings)
}

func (s *ConfigSuite) TestDotEnvFile() {
	path := filepath.Join(s.T().TempDir(), "test.env")
	s.Require().NoError(os.WriteFile(path, []byte("VOTEDESK_WALLET_ADDRESS=0xdef0000000000000000000000000000000000456\n"), 0o600))
	s.T().Setenv("VOTEDESK_ENV_FILE", path)
	s.T().Setenv("VOTEDESK_WALLET_ADDRESS", "")
	os.Unsetenv("VOTEDESK_WALLET_ADDRESS")

	cfg := FromEnv()

	s.Equal("0xdef0000000000000000000000000000000000456", cfg.WalletAddress)
	os.Unsetenv("VOTEDESK_WALLET_ADDRESS")
}

func (s *ConfigSuite) TestBackendFromEnv() {
	s.T().Setenv("OFFCHAIN_ADDR", ":9999")
	s.T().Setenv("OFFCHAIN_SEED_VOTERS", "25")

	cfg := BackendFromEnv()

	s.Equal(":9999", cfg.Addr)
	s.Equal(25, cfg.SeedVoters)
}
