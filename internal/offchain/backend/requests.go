package backend

import (
	"strings"

	"votedesk/internal/offchain"
	"votedesk/pkg/domain"
	"votedesk/pkg/validation"
)

type registerRequest struct {
	Address     string `json:"address" validate:"required"`
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Gender      string `json:"gender" validate:"max=32"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	City        string `json:"city" validate:"max=100"`
	State       string `json:"state" validate:"max=100"`
	NationalID  string `json:"national_id" validate:"required,notblank,max=64"`
	Phone       string `json:"phone" validate:"max=32"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`

	address domain.Address
}

func (r *registerRequest) Normalize() {
	r.Address = strings.TrimSpace(r.Address)
	r.Name = strings.TrimSpace(r.Name)
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *registerRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	addr, err := domain.ParseAddress(r.Address)
	if err != nil {
		return err
	}
	r.address = addr
	return nil
}

func (r *registerRequest) registration() offchain.VoterRegistration {
	return offchain.VoterRegistration{
		Address:     r.address,
		Name:        r.Name,
		Gender:      r.Gender,
		DateOfBirth: r.DateOfBirth,
		City:        r.City,
		State:       r.State,
		NationalID:  r.NationalID,
		Phone:       r.Phone,
		Email:       r.Email,
	}
}

// ledgerFields are reported by the client alongside every admin write. An empty
// status means the ledger was not attempted.
type ledgerFields struct {
	LedgerStatus string `json:"ledger_status" validate:"oneof=skipped succeeded failed"`
	TxHash       string `json:"tx_hash" validate:"max=66"`
}

func (l *ledgerFields) normalizeLedger() {
	l.LedgerStatus = strings.ToLower(strings.TrimSpace(l.LedgerStatus))
	if l.LedgerStatus == "" {
		l.LedgerStatus = offchain.LedgerSkipped
	}
	l.TxHash = strings.TrimSpace(l.TxHash)
}

type verifyRequest struct {
	ledgerFields
}

func (r *verifyRequest) Normalize() {
	r.normalizeLedger()
}

func (r *verifyRequest) Validate() error {
	return validation.Validate(r)
}

// electionRequest does not compare start and end times.
type electionRequest struct {
	ID        domain.ElectionID `json:"id"`
	Name      string            `json:"name" validate:"required,notblank,max=200"`
	StartTime int64             `json:"start_time"`
	EndTime   int64             `json:"end_time"`
	ledgerFields
}

func (r *electionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.normalizeLedger()
}

func (r *electionRequest) Validate() error {
	return validation.Validate(r)
}

func (r *electionRequest) command() offchain.ScheduleElectionCommand {
	return offchain.ScheduleElectionCommand{
		ID:           r.ID,
		Name:         r.Name,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		LedgerStatus: r.LedgerStatus,
		TxHash:       r.TxHash,
	}
}

type candidateRequest struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
	Info string `json:"info" validate:"max=500"`
	ledgerFields
}

func (r *candidateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Info = strings.TrimSpace(r.Info)
	r.normalizeLedger()
}

func (r *candidateRequest) Validate() error {
	return validation.Validate(r)
}
