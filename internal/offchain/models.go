package offchain

import (
	"time"

	"votedesk/pkg/domain"
	"votedesk/pkg/platform/middleware/admin"
)

// HeaderWalletAddress carries the caller's wallet address on admin endpoints.
// It is asserted by the client and not signed.
const HeaderWalletAddress = admin.HeaderWalletAddress

// Action kinds recorded in admin logs.
type Action string

const (
	ActionVerifyVoter      Action = "VERIFY_VOTER"
	ActionScheduleElection Action = "SCHEDULE_ELECTION"
	ActionAddCandidate     Action = "ADD_CANDIDATE"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionVerifyVoter, ActionScheduleElection, ActionAddCandidate:
		return true
	}
	return false
}

// Status is the outcome recorded in an admin log entry.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

func (s Status) IsValid() bool {
	return s == StatusSuccess || s == StatusFailure
}

// LedgerStatus values reported alongside administrative commands.
const (
	LedgerSkipped   = "skipped"
	LedgerSucceeded = "succeeded"
	LedgerFailed    = "failed"
)

type Voter struct {
	Address      domain.Address `json:"address"`
	Name         string         `json:"name"`
	Gender       string         `json:"gender"`
	DateOfBirth  string         `json:"date_of_birth"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	NationalID   string         `json:"national_id"`
	Phone        string         `json:"phone"`
	Email        string         `json:"email"`
	Verified     bool           `json:"verified"`
	VerifiedAt   *time.Time     `json:"verified_at,omitempty"`
	RegisteredAt time.Time      `json:"registered_at"`
	DocumentID   string         `json:"document_id,omitempty"`
}

// VoterRegistration is the public registration payload.
type VoterRegistration struct {
	Address     domain.Address `json:"address"`
	Name        string         `json:"name"`
	Gender      string         `json:"gender"`
	DateOfBirth string         `json:"date_of_birth"`
	City        string         `json:"city"`
	State       string         `json:"state"`
	NationalID  string         `json:"national_id"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email"`
}

type VoterStatus struct {
	Address    domain.Address `json:"address"`
	Registered bool           `json:"registered"`
	Verified   bool           `json:"verified"`
	VerifiedAt *time.Time     `json:"verified_at,omitempty"`
}

type Document struct {
	ID          string         `json:"id"`
	Voter       domain.Address `json:"voter"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"content_type"`
	Size        int64          `json:"size"`
	UploadedAt  time.Time      `json:"uploaded_at"`
}

type Stats struct {
	TotalVoters       int       `json:"total_voters"`
	VerifiedVoters    int       `json:"verified_voters"`
	UnverifiedVoters  int       `json:"unverified_voters"`
	TotalElections    int       `json:"total_elections"`
	TotalCandidates   int       `json:"total_candidates"`
	TotalLogs         int       `json:"total_logs"`
	SuccessfulActions int       `json:"successful_actions"`
	FailedActions     int       `json:"failed_actions"`
	GeneratedAt       time.Time `json:"generated_at"`
}

type DailyStat struct {
	Date          string `json:"date"`
	Registrations int    `json:"registrations"`
	Verifications int    `json:"verifications"`
}

type HealthStatus struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

// LogEntry is one append-only admin audit record.
type LogEntry struct {
	ID          string            `json:"id"`
	Actor       domain.Address    `json:"actor"`
	Action      Action            `json:"action"`
	Description string            `json:"description"`
	Target      string            `json:"target,omitempty"`
	TxHash      string            `json:"tx_hash,omitempty"`
	Status      Status            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	IPAddress   string            `json:"ip_address"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type VoterPage struct {
	Voters     []Voter    `json:"voters"`
	Pagination Pagination `json:"pagination"`
}

type LogPage struct {
	Logs       []LogEntry `json:"logs"`
	Pagination Pagination `json:"pagination"`
}

// Ack is the success acknowledgment returned by write endpoints.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LogID   string `json:"log_id,omitempty"`
}

// VerifyVoterCommand verifies Voter. Ledger fields report the ledger attempt that
// preceded the call so the store can log it.
type VerifyVoterCommand struct {
	Voter        domain.Address `json:"-"`
	LedgerStatus string         `json:"ledger_status"`
	TxHash       string         `json:"tx_hash,omitempty"`
}

type ScheduleElectionCommand struct {
	ID           domain.ElectionID `json:"id"`
	Name         string            `json:"name"`
	StartTime    int64             `json:"start_time"`
	EndTime      int64             `json:"end_time"`
	LedgerStatus string            `json:"ledger_status"`
	TxHash       string            `json:"tx_hash,omitempty"`
}

type AddCandidateCommand struct {
	ElectionID   domain.ElectionID `json:"-"`
	Name         string            `json:"name"`
	Info         string            `json:"info"`
	LedgerStatus string            `json:"ledger_status"`
	TxHash       string            `json:"tx_hash,omitempty"`
}

// ErrorResponse is the error body shared by the client and the reference backend.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}
