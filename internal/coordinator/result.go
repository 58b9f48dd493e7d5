package coordinator

import "votedesk/internal/offchain"

// Outcome is the combined result of one administrative write.
type Outcome string

const (
	// OutcomeCommitted: off-chain succeeded and the ledger succeeded or was skipped.
	OutcomeCommitted Outcome = "committed"
	// OutcomePartialLedgerFailure: off-chain succeeded, the ledger attempt failed.
	OutcomePartialLedgerFailure Outcome = "partial_ledger_failure"
	// OutcomeRejected: the off-chain call failed. Terminal.
	OutcomeRejected Outcome = "rejected"
)

// LedgerStatus reports what happened on the ledger side.
type LedgerStatus string

const (
	LedgerSkipped   LedgerStatus = offchain.LedgerSkipped
	LedgerSucceeded LedgerStatus = offchain.LedgerSucceeded
	LedgerFailed    LedgerStatus = offchain.LedgerFailed
)

// Result is returned for every write that passed its preconditions.
// Message is the store's acknowledgment on success, or the store's error message
// verbatim when rejected.
type Result struct {
	Operation string
	Outcome   Outcome
	Ledger    LedgerStatus
	TxHash    string
	LedgerErr error
	Message   string
	LogID     string
	Err       error
}

// OK reports whether the off-chain record was written.
func (r Result) OK() bool {
	return r.Outcome == OutcomeCommitted || r.Outcome == OutcomePartialLedgerFailure
}
