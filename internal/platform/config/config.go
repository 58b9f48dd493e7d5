package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the session layer configuration recognized from the environment.
type Config struct {
	APIBaseURL        string
	AdminAddress      string
	DevMode           bool
	DummyLedger       bool
	VerboseAPILogging bool
	HTTPTimeout       time.Duration

	LedgerRPCURL           string
	ContractAddress        string
	LedgerPrivateKey       string
	LedgerFailureThreshold int

	WalletRPCURL     string
	WalletPrivateKey string
	WalletAddress    string

	// DevModeForced is set when VOTEDESK_DEV_MODE was requested in a production build.
	DevModeForced bool

	// Warnings lists variables that were set but could not be parsed; their defaults apply.
	Warnings []string
}

// Backend captures configuration for the reference off-chain backend binary.
type Backend struct {
	Addr         string
	AdminAddress string
	SeedVoters   int
}

var DefaultAPIBaseURL = "http://localhost:5000/api"
var DefaultHTTPTimeout = 15 * time.Second

const DefaultLedgerFailureThreshold = 3

// ProductionBuild reports whether the binary was built with the production tag.
func ProductionBuild() bool {
	return !devModeAllowed
}

// LedgerConfigured reports whether a contract ledger can be dialed.
func (c Config) LedgerConfigured() bool {
	return c.LedgerRPCURL != "" && c.ContractAddress != ""
}

// FromEnv builds a Config from environment variables so main stays lean.
// A dotenv file (VOTEDESK_ENV_FILE, default .env) is loaded first when present;
// variables already set in the process environment win.
func FromEnv() Config {
	envFile := os.Getenv("VOTEDESK_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	apiBaseURL := strings.TrimRight(os.Getenv("VOTEDESK_API_BASE_URL"), "/")
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}

	var warnings []string
	warn := func(key, raw, fallback string) {
		warnings = append(warnings, fmt.Sprintf("%s=%q is invalid, using %s", key, raw, fallback))
	}

	timeout := DefaultHTTPTimeout
	if raw := os.Getenv("VOTEDESK_HTTP_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		} else {
			warn("VOTEDESK_HTTP_TIMEOUT", raw, timeout.String())
		}
	}

	threshold := DefaultLedgerFailureThreshold
	if raw := os.Getenv("VOTEDESK_LEDGER_FAILURE_THRESHOLD"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			threshold = n
		} else {
			warn("VOTEDESK_LEDGER_FAILURE_THRESHOLD", raw, strconv.Itoa(threshold))
		}
	}

	boolVar := func(key string, fallback bool) bool {
		v, ok := envBool(key, fallback)
		if !ok {
			warn(key, os.Getenv(key), strconv.FormatBool(fallback))
		}
		return v
	}

	devRequested := boolVar("VOTEDESK_DEV_MODE", false)
	devMode := devRequested && devModeAllowed
	dummy := boolVar("VOTEDESK_DUMMY_LEDGER", true)
	verbose := boolVar("VOTEDESK_VERBOSE_API_LOGGING", false)

	return Config{
		APIBaseURL:             apiBaseURL,
		AdminAddress:           strings.TrimSpace(os.Getenv("VOTEDESK_ADMIN_ADDRESS")),
		DevMode:                devMode,
		DevModeForced:          devRequested && !devModeAllowed,
		DummyLedger:            dummy,
		VerboseAPILogging:      verbose,
		HTTPTimeout:            timeout,
		LedgerRPCURL:           os.Getenv("VOTEDESK_LEDGER_RPC_URL"),
		ContractAddress:        os.Getenv("VOTEDESK_CONTRACT_ADDRESS"),
		LedgerPrivateKey:       os.Getenv("VOTEDESK_LEDGER_PRIVATE_KEY"),
		LedgerFailureThreshold: threshold,
		WalletRPCURL:           os.Getenv("VOTEDESK_WALLET_RPC_URL"),
		WalletPrivateKey:       os.Getenv("VOTEDESK_WALLET_PRIVATE_KEY"),
		WalletAddress:          strings.TrimSpace(os.Getenv("VOTEDESK_WALLET_ADDRESS")),
		Warnings:               warnings,
	}
}

// BackendFromEnv builds the reference backend configuration.
func BackendFromEnv() Backend {
	addr := os.Getenv("OFFCHAIN_ADDR")
	if addr == "" {
		addr = ":5000"
	}
	seed := 0
	if raw := os.Getenv("OFFCHAIN_SEED_VOTERS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			seed = n
		}
	}
	return Backend{
		Addr:         addr,
		AdminAddress: strings.TrimSpace(os.Getenv("OFFCHAIN_ADMIN_ADDRESS")),
		SeedVoters:   seed,
	}
}

// envBool reads a boolean variable. The second result is false when the variable is set but unparseable.
func envBool(key string, fallback bool) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, false
	}
	return v, true
}
