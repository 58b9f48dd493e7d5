// Package simulated provides the dummy-mode ledger: canned elections and candidates,
// writes that confirm instantly, and no network activity.
package simulated

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/sha3"

	"votedesk/internal/ledger"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

// Ledger is the SimulatedLedger variant of ledger.Client.
type Ledger struct {
	latency time.Duration
	failure error
	nonce   atomic.Uint64

	mu         sync.RWMutex
	elections  []ledger.Election
	candidates map[domain.ElectionID][]ledger.Candidate
}

// Option configures a simulated Ledger.
type Option func(*Ledger)

// WithLatency delays every write to mimic confirmation time.
func WithLatency(d time.Duration) Option {
	return func(l *Ledger) {
		l.latency = d
	}
}

// WithFailure makes every write and reachability probe fail with err.
func WithFailure(err error) Option {
	return func(l *Ledger) {
		l.failure = err
	}
}

// WithCatalog replaces the canned elections and candidates.
func WithCatalog(elections []ledger.Election, candidates []ledger.Candidate) Option {
	return func(l *Ledger) {
		l.elections = elections
		l.candidates = groupCandidates(candidates)
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		elections:  defaultElections(),
		candidates: groupCandidates(defaultCandidates()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Mode() string { return ledger.ModeSimulated }

func (l *Ledger) Close() error { return nil }

func (l *Ledger) Reachable(_ context.Context) error {
	return l.failure
}

func (l *Ledger) VerifyUser(ctx context.Context, voter domain.Address) (ledger.Receipt, error) {
	return l.write(ctx, "verifyUser", voter.String())
}

func (l *Ledger) ScheduleElection(ctx context.Context, spec ledger.ElectionSpec) (ledger.Receipt, error) {
	return l.write(ctx, "scheduleElection", spec.ID.String(), spec.Name,
		fmt.Sprint(spec.StartTime), fmt.Sprint(spec.EndTime))
}

func (l *Ledger) AddCandidate(ctx context.Context, spec ledger.CandidateSpec) (ledger.Receipt, error) {
	return l.write(ctx, "addCandidate", spec.ElectionID.String(), spec.Name, spec.Info)
}

// Elections returns the canned catalog; simulated writes never change it.
func (l *Ledger) Elections(_ context.Context) ([]ledger.Election, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]ledger.Election(nil), l.elections...), nil
}

func (l *Ledger) Candidates(_ context.Context, electionID domain.ElectionID) ([]ledger.Candidate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.elections {
		if e.ID == electionID {
			return append([]ledger.Candidate{}, l.candidates[electionID]...), nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
}

func (l *Ledger) write(ctx context.Context, method string, params ...string) (ledger.Receipt, error) {
	if l.latency > 0 {
		select {
		case <-time.After(l.latency):
		case <-ctx.Done():
			return ledger.Receipt{}, ctx.Err()
		}
	}
	if l.failure != nil {
		return ledger.Receipt{}, l.failure
	}
	return ledger.Receipt{TxHash: l.txHash(method, params), Success: true}, nil
}

// txHash is Keccak-256 over the call plus a per-ledger nonce, so repeated identical
// calls get distinct references.
func (l *Ledger) txHash(method string, params []string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(method))
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	fmt.Fprintf(h, "#%d", l.nonce.Add(1))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

func groupCandidates(candidates []ledger.Candidate) map[domain.ElectionID][]ledger.Candidate {
	grouped := make(map[domain.ElectionID][]ledger.Candidate)
	for _, c := range candidates {
		grouped[c.ElectionID] = append(grouped[c.ElectionID], c)
	}
	return grouped
}

var _ ledger.Client = (*Ledger)(nil)
