// Package facade is the read side of the admin session. Reads go straight to the
// off-chain store; election catalog reads go to the ledger reader.
package facade

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"votedesk/internal/ledger"
	"votedesk/internal/offchain"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

// DashboardHistoryDays is the window of the dashboard history chart.
const DashboardHistoryDays = 7

// ErrNotConnected is returned by admin reads when no wallet is connected.
var ErrNotConnected = dErrors.New(dErrors.CodeUnauthorized, "no wallet connected")

// ErrNoLedger is returned by catalog reads when no ledger is configured.
var ErrNoLedger = dErrors.New(dErrors.CodeLedgerCallFailed, "no ledger configured")

type Identity interface {
	Current() (domain.Address, bool)
}

// Store is the subset of the off-chain client used for reads and public voter writes.
type Store interface {
	Health(ctx context.Context) (*offchain.HealthStatus, error)
	RegisterVoter(ctx context.Context, reg offchain.VoterRegistration) (*offchain.Ack, error)
	UploadDocument(ctx context.Context, voter domain.Address, filename string, r io.Reader) (*offchain.Document, error)
	Voter(ctx context.Context, voter domain.Address) (*offchain.Voter, error)
	VoterStatus(ctx context.Context, voter domain.Address) (*offchain.VoterStatus, error)
	ListVoters(ctx context.Context, admin domain.Address, filter offchain.VoterFilter) (*offchain.VoterPage, error)
	Stats(ctx context.Context, admin domain.Address) (*offchain.Stats, error)
	History(ctx context.Context, admin domain.Address, days int) ([]offchain.DailyStat, error)
	Logs(ctx context.Context, admin domain.Address, filter offchain.LogFilter) (*offchain.LogPage, error)
}

// Dashboard is the landing view: counters, a short history and backend health.
type Dashboard struct {
	Stats   offchain.Stats
	History []offchain.DailyStat
	Health  offchain.HealthStatus
}

type Facade struct {
	identity Identity
	store    Store
	catalog  ledger.Reader
}

// New builds a facade. catalog may be nil when no ledger is configured.
func New(identity Identity, store Store, catalog ledger.Reader) *Facade {
	return &Facade{identity: identity, store: store, catalog: catalog}
}

func (f *Facade) Health(ctx context.Context) (*offchain.HealthStatus, error) {
	return f.store.Health(ctx)
}

func (f *Facade) Stats(ctx context.Context) (*offchain.Stats, error) {
	admin, err := f.admin()
	if err != nil {
		return nil, err
	}
	return f.store.Stats(ctx, admin)
}

func (f *Facade) ListVoters(ctx context.Context, filter offchain.VoterFilter) (*offchain.VoterPage, error) {
	admin, err := f.admin()
	if err != nil {
		return nil, err
	}
	return f.store.ListVoters(ctx, admin, filter)
}

// ListUnverifiedVoters is the verification queue.
func (f *Facade) ListUnverifiedVoters(ctx context.Context, page, limit int) (*offchain.VoterPage, error) {
	unverified := false
	return f.ListVoters(ctx, offchain.VoterFilter{Verified: &unverified, Page: page, Limit: limit})
}

func (f *Facade) Logs(ctx context.Context, filter offchain.LogFilter) (*offchain.LogPage, error) {
	admin, err := f.admin()
	if err != nil {
		return nil, err
	}
	return f.store.Logs(ctx, admin, filter)
}

func (f *Facade) History(ctx context.Context, days int) ([]offchain.DailyStat, error) {
	admin, err := f.admin()
	if err != nil {
		return nil, err
	}
	return f.store.History(ctx, admin, days)
}

func (f *Facade) Voter(ctx context.Context, addr domain.Address) (*offchain.Voter, error) {
	return f.store.Voter(ctx, addr)
}

func (f *Facade) VoterStatus(ctx context.Context, addr domain.Address) (*offchain.VoterStatus, error) {
	return f.store.VoterStatus(ctx, addr)
}

func (f *Facade) RegisterVoter(ctx context.Context, reg offchain.VoterRegistration) (*offchain.Ack, error) {
	return f.store.RegisterVoter(ctx, reg)
}

func (f *Facade) UploadDocument(ctx context.Context, addr domain.Address, filename string, r io.Reader) (*offchain.Document, error) {
	return f.store.UploadDocument(ctx, addr, filename, r)
}

// Dashboard fetches stats, history and health concurrently. Any failure fails the
// whole view.
func (f *Facade) Dashboard(ctx context.Context) (*Dashboard, error) {
	admin, err := f.admin()
	if err != nil {
		return nil, err
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := f.store.Stats(gctx, admin)
		if err != nil {
			return err
		}
		d.Stats = *stats
		return nil
	})
	g.Go(func() error {
		history, err := f.store.History(gctx, admin, DashboardHistoryDays)
		if err != nil {
			return err
		}
		d.History = history
		return nil
	})
	g.Go(func() error {
		health, err := f.store.Health(gctx)
		if err != nil {
			return err
		}
		d.Health = *health
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (f *Facade) Elections(ctx context.Context) ([]ledger.Election, error) {
	if f.catalog == nil {
		return nil, ErrNoLedger
	}
	elections, err := f.catalog.Elections(ctx)
	if err != nil {
		return nil, ledger.CallFailed("elections", err)
	}
	return elections, nil
}

func (f *Facade) Candidates(ctx context.Context, electionID domain.ElectionID) ([]ledger.Candidate, error) {
	if f.catalog == nil {
		return nil, ErrNoLedger
	}
	candidates, err := f.catalog.Candidates(ctx, electionID)
	if err != nil {
		return nil, ledger.CallFailed("candidates", err)
	}
	return candidates, nil
}

// admin returns the address sent as the admin header. The store makes the final
// decision; the facade only requires a connected wallet.
func (f *Facade) admin() (domain.Address, error) {
	addr, ok := f.identity.Current()
	if !ok || addr.IsNil() {
		return "", ErrNotConnected
	}
	return addr, nil
}
