// Package ledger defines the capability interface for the on-chain side of
// administrative operations. Variants live in subpackages: simulated (canned values,
// no network) and contract (go-ethereum bound contract).
package ledger

import (
	"context"
	"fmt"

	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

const (
	ModeSimulated = "simulated"
	ModeContract  = "contract"
)

// Receipt is the confirmation of one ledger write. Success is false when the
// transaction was mined but reverted.
type Receipt struct {
	TxHash  string
	Success bool
}

// ElectionSpec is the ledger-side payload of a scheduled election. Times are epoch
// seconds. StartTime < EndTime is not enforced.
type ElectionSpec struct {
	ID        domain.ElectionID
	Name      string
	StartTime int64
	EndTime   int64
}

// CandidateSpec is the ledger-side payload of a new candidate.
type CandidateSpec struct {
	ElectionID domain.ElectionID
	Name       string
	Info       string
}

type Election struct {
	ID        domain.ElectionID `json:"id"`
	Name      string            `json:"name"`
	StartTime int64             `json:"start_time"`
	EndTime   int64             `json:"end_time"`
}

type Candidate struct {
	ID         domain.CandidateID `json:"id"`
	ElectionID domain.ElectionID  `json:"election_id"`
	Name       string             `json:"name"`
	Info       string             `json:"info"`
}

// Writer performs administrative writes and waits for confirmation.
type Writer interface {
	VerifyUser(ctx context.Context, voter domain.Address) (Receipt, error)
	ScheduleElection(ctx context.Context, spec ElectionSpec) (Receipt, error)
	AddCandidate(ctx context.Context, spec CandidateSpec) (Receipt, error)
	// Reachable returns nil when the ledger can currently accept calls.
	Reachable(ctx context.Context) error
}

// Reader exposes the election catalog.
type Reader interface {
	Elections(ctx context.Context) ([]Election, error)
	Candidates(ctx context.Context, electionID domain.ElectionID) ([]Candidate, error)
}

// Client is the full ledger capability.
type Client interface {
	Writer
	Reader
	Mode() string
	Close() error
}

// CallFailed wraps a ledger failure with the ledger_call_failed code.
func CallFailed(op string, err error) error {
	return dErrors.Wrap(err, dErrors.CodeLedgerCallFailed, fmt.Sprintf("ledger %s failed: %v", op, err))
}

// ErrReverted reports a mined transaction whose receipt status is failure.
var ErrReverted = dErrors.New(dErrors.CodeLedgerCallFailed, "transaction reverted")
