// Package identity resolves the wallet identity of the admin session and answers
// whether it is the administrator.
package identity

import (
	"context"
	"log/slog"
	"sync"

	"votedesk/internal/authz"
	"votedesk/internal/platform/logger"
	"votedesk/internal/platform/metrics"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

// ErrProviderUnavailable is returned by Connect when no wallet provider was injected
// or the provider exposes no account.
var ErrProviderUnavailable = dErrors.New(dErrors.CodeProviderUnavailable, "no wallet provider detected")

// Resolver holds the connected address and the configured admin address.
// The pair is written only by Connect/Disconnect and read by many callers.
type Resolver struct {
	provider WalletProvider
	admin    domain.Address
	devMode  bool
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	current domain.Address
}

// Option configures a Resolver.
type Option func(*Resolver)

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver creates a resolver. provider may be nil, in which case Connect reports
// ErrProviderUnavailable.
func NewResolver(provider WalletProvider, admin domain.Address, devMode bool, opts ...Option) *Resolver {
	r := &Resolver{
		provider: provider,
		admin:    admin,
		devMode:  devMode,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Connect asks the provider for its accounts and retains the first one.
// There is no automatic reconnection; callers re-invoke Connect explicitly.
func (r *Resolver) Connect(ctx context.Context) (domain.Address, error) {
	if r.provider == nil {
		r.metrics.ObserveWalletConnection("provider_unavailable")
		return "", ErrProviderUnavailable
	}

	accounts, err := r.provider.Accounts(ctx)
	if err != nil {
		r.metrics.ObserveWalletConnection("error")
		return "", dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "wallet provider request failed: "+err.Error())
	}
	if len(accounts) == 0 {
		r.metrics.ObserveWalletConnection("no_accounts")
		return "", dErrors.New(dErrors.CodeProviderUnavailable, "wallet exposed no accounts")
	}

	addr, err := domain.ParseAddress(accounts[0])
	if err != nil {
		r.metrics.ObserveWalletConnection("invalid_address")
		return "", err
	}

	r.mu.Lock()
	r.current = addr
	r.mu.Unlock()

	r.metrics.ObserveWalletConnection("connected")
	r.logger.InfoContext(ctx, "wallet connected",
		"address", addr.Short(),
		"is_admin", r.IsAdmin(),
		"dev_mode", r.devMode,
	)
	return addr, nil
}

// Disconnect clears the session identity.
func (r *Resolver) Disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = ""
}

// Current returns the connected address, if any.
func (r *Resolver) Current() (domain.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, !r.current.IsNil()
}

func (r *Resolver) AdminAddress() domain.Address {
	return r.admin
}

func (r *Resolver) DevMode() bool {
	return r.devMode
}

// IsAdmin recomputes the authorization decision on every call.
func (r *Resolver) IsAdmin() bool {
	current, _ := r.Current()
	return authz.IsAdmin(current, r.admin, r.devMode)
}
