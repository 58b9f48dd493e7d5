// Package session owns the admin session graph: wallet provider, identity resolver,
// ledger client, off-chain client, coordinator and facade. A Session is built
// explicitly with New and released with Close.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"votedesk/internal/coordinator"
	"votedesk/internal/diagnostics"
	"votedesk/internal/facade"
	"votedesk/internal/identity"
	"votedesk/internal/ledger"
	"votedesk/internal/ledger/contract"
	"votedesk/internal/ledger/simulated"
	"votedesk/internal/offchain"
	"votedesk/internal/platform/config"
	"votedesk/internal/platform/logger"
	"votedesk/internal/platform/metrics"
	"votedesk/internal/platform/tracer"
	"votedesk/pkg/domain"
)

type Session struct {
	cfg      config.Config
	logger   *slog.Logger
	provider identity.WalletProvider
	ledger   ledger.Client

	Resolver    *identity.Resolver
	Client      *offchain.Client
	Coordinator *coordinator.Coordinator
	Facade      *facade.Facade

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
	tracer     tracer.Tracer
	httpClient *http.Client
	provider   identity.WalletProvider
	ledger     ledger.Client
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRegisterer registers session metrics with reg instead of a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithWalletProvider overrides the provider selected from config.
func WithWalletProvider(p identity.WalletProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithLedger overrides the ledger selected from config.
func WithLedger(l ledger.Client) Option {
	return func(o *options) {
		o.ledger = l
	}
}

// New builds the session graph from cfg. The wallet is not connected yet; call
// Connect.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Session, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.New(cfg.VerboseAPILogging)
	}
	if o.registerer == nil {
		o.registerer = prometheus.NewRegistry()
	}
	if o.tracer == nil {
		o.tracer = tracer.NewNoop()
	}

	var admin domain.Address
	if cfg.AdminAddress != "" {
		parsed, err := domain.ParseAddress(cfg.AdminAddress)
		if err != nil {
			return nil, fmt.Errorf("admin address: %w", err)
		}
		admin = parsed
	}
	for _, w := range cfg.Warnings {
		o.logger.WarnContext(ctx, "configuration value ignored", "detail", w)
	}
	if cfg.DevModeForced {
		o.logger.WarnContext(ctx, "dev mode requested in a production build; ignoring")
	}

	clientOpts := []offchain.Option{
		offchain.WithTimeout(cfg.HTTPTimeout),
		offchain.WithLogger(o.logger),
		offchain.WithVerbose(cfg.VerboseAPILogging),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, offchain.WithHTTPClient(o.httpClient))
	}
	client, err := offchain.NewClient(cfg.APIBaseURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("offchain client: %w", err)
	}

	provider := o.provider
	if provider == nil {
		provider, err = selectProvider(cfg, admin)
		if err != nil {
			return nil, err
		}
	}

	l := o.ledger
	if l == nil {
		l, err = selectLedger(ctx, cfg)
		if err != nil {
			closeProvider(provider)
			return nil, err
		}
	}

	m := metrics.New(o.registerer)
	resolver := identity.NewResolver(provider, admin, cfg.DevMode,
		identity.WithLogger(o.logger),
		identity.WithMetrics(m),
	)

	coordOpts := []coordinator.Option{
		coordinator.WithFailureThreshold(cfg.LedgerFailureThreshold),
		coordinator.WithLogger(o.logger),
		coordinator.WithMetrics(m),
		coordinator.WithTracer(o.tracer),
	}
	var catalog ledger.Reader
	if l != nil {
		coordOpts = append(coordOpts, coordinator.WithLedger(l))
		catalog = l
	}
	coord, err := coordinator.New(resolver, client, coordOpts...)
	if err != nil {
		closeProvider(provider)
		if l != nil {
			_ = l.Close()
		}
		return nil, err
	}

	s := &Session{
		cfg:         cfg,
		logger:      o.logger,
		provider:    provider,
		ledger:      l,
		Resolver:    resolver,
		Client:      client,
		Coordinator: coord,
		Facade:      facade.New(resolver, client, catalog),
	}
	o.logger.InfoContext(ctx, "session ready",
		"api_base_url", client.BaseURL(),
		"ledger_mode", s.LedgerMode(),
		"dev_mode", cfg.DevMode,
	)
	return s, nil
}

// DummyAccount is the wallet used in dummy mode when neither a wallet nor an admin
// address is configured.
const DummyAccount = "0x00000000000000000000000000000000000d0d0e"

// selectProvider picks the wallet provider: a fixed address, then a local key, then a
// JSON-RPC wallet. No configured provider leaves the session without one. Dummy mode
// never touches a wallet: it answers with the configured address, the admin address or
// DummyAccount.
func selectProvider(cfg config.Config, admin domain.Address) (identity.WalletProvider, error) {
	switch {
	case cfg.DummyLedger:
		switch {
		case cfg.WalletAddress != "":
			return identity.NewStaticProvider(cfg.WalletAddress), nil
		case !admin.IsNil():
			return identity.NewStaticProvider(admin.String()), nil
		default:
			return identity.NewStaticProvider(DummyAccount), nil
		}
	case cfg.WalletAddress != "":
		return identity.NewStaticProvider(cfg.WalletAddress), nil
	case cfg.WalletPrivateKey != "":
		p, err := identity.NewKeyProvider(cfg.WalletPrivateKey)
		if err != nil {
			return nil, err
		}
		return p, nil
	case cfg.WalletRPCURL != "":
		return identity.NewRPCProvider(cfg.WalletRPCURL), nil
	default:
		return nil, nil
	}
}

func selectLedger(ctx context.Context, cfg config.Config) (ledger.Client, error) {
	switch {
	case cfg.DummyLedger:
		return simulated.New(), nil
	case cfg.LedgerConfigured():
		c, err := contract.Dial(ctx, contract.Config{
			RPCURL:          cfg.LedgerRPCURL,
			ContractAddress: cfg.ContractAddress,
			PrivateKey:      cfg.LedgerPrivateKey,
		})
		if err != nil {
			return nil, fmt.Errorf("ledger: %w", err)
		}
		return c, nil
	default:
		return nil, nil
	}
}

func closeProvider(p identity.WalletProvider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Connect attaches the wallet identity.
func (s *Session) Connect(ctx context.Context) (domain.Address, error) {
	return s.Resolver.Connect(ctx)
}

// Close releases the ledger and wallet connections. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.Resolver.Disconnect()
		var errs []error
		if s.ledger != nil {
			errs = append(errs, s.ledger.Close())
		}
		errs = append(errs, closeProvider(s.provider))
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

// LedgerMode returns "simulated", "contract", or "" when no ledger is configured.
func (s *Session) LedgerMode() string {
	if s.ledger == nil {
		return ""
	}
	return s.ledger.Mode()
}

// The methods below satisfy diagnostics.Probe.

func (s *Session) Health(ctx context.Context) (*offchain.HealthStatus, error) {
	return s.Facade.Health(ctx)
}

func (s *Session) Wallet() (domain.Address, bool) {
	return s.Resolver.Current()
}

func (s *Session) IsAdmin() bool {
	return s.Resolver.IsAdmin()
}

func (s *Session) LedgerReachable(ctx context.Context) error {
	if s.ledger == nil {
		return facade.ErrNoLedger
	}
	return s.ledger.Reachable(ctx)
}

func (s *Session) Environment() diagnostics.Environment {
	return diagnostics.Environment{
		APIBaseURL:      s.Client.BaseURL(),
		AdminAddress:    s.Resolver.AdminAddress().String(),
		DevMode:         s.cfg.DevMode,
		DummyLedger:     s.cfg.DummyLedger,
		VerboseLogging:  s.cfg.VerboseAPILogging,
		ProductionBuild: config.ProductionBuild(),
		ConfigWarnings:  s.cfg.Warnings,
	}
}

var _ diagnostics.Probe = (*Session)(nil)
