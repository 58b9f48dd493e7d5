// Package coordinator fans administrative writes out to the ledger and the
// off-chain store. The ledger attempt is best-effort; the off-chain record decides
// the outcome.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"votedesk/internal/ledger"
	"votedesk/internal/offchain"
	"votedesk/internal/platform/metrics"
	"votedesk/internal/platform/tracer"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
	"votedesk/pkg/platform/circuit"
)

const (
	OpVerifyVoter      = "verify_voter"
	OpScheduleElection = "schedule_election"
	OpAddCandidate     = "add_candidate"
)

// Identity supplies the connected wallet and its admin decision.
type Identity interface {
	Current() (domain.Address, bool)
	IsAdmin() bool
}

// Ledger is the write side of the ledger capability.
type Ledger interface {
	VerifyUser(ctx context.Context, voter domain.Address) (ledger.Receipt, error)
	ScheduleElection(ctx context.Context, spec ledger.ElectionSpec) (ledger.Receipt, error)
	AddCandidate(ctx context.Context, spec ledger.CandidateSpec) (ledger.Receipt, error)
	Reachable(ctx context.Context) error
}

// Offchain records administrative writes in the off-chain store. The admin address
// travels as request context, not payload.
type Offchain interface {
	VerifyVoter(ctx context.Context, admin domain.Address, cmd offchain.VerifyVoterCommand) (*offchain.Ack, error)
	RecordElection(ctx context.Context, admin domain.Address, cmd offchain.ScheduleElectionCommand) (*offchain.Ack, error)
	RecordCandidate(ctx context.Context, admin domain.Address, cmd offchain.AddCandidateCommand) (*offchain.Ack, error)
}

var (
	ErrNotConnected = dErrors.New(dErrors.CodeUnauthorized, "no wallet connected")
	ErrNotAdmin     = dErrors.New(dErrors.CodeUnauthorized, "connected wallet is not the administrator")
)

type Coordinator struct {
	identity Identity
	store    Offchain
	ledger   Ledger
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
}

type Option func(*Coordinator)

// WithLedger enables the ledger attempt. Without it every write records
// ledger_status=skipped.
func WithLedger(l Ledger) Option {
	return func(c *Coordinator) {
		c.ledger = l
	}
}

// WithFailureThreshold sets how many consecutive ledger failures mark the ledger
// unreachable.
func WithFailureThreshold(n int) Option {
	return func(c *Coordinator) {
		c.breaker = circuit.New("ledger", circuit.WithFailureThreshold(n))
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = t
	}
}

func New(identity Identity, store Offchain, opts ...Option) (*Coordinator, error) {
	if identity == nil {
		return nil, errors.New("identity is required")
	}
	if store == nil {
		return nil, errors.New("offchain store is required")
	}
	c := &Coordinator{
		identity: identity,
		store:    store,
		breaker:  circuit.New("ledger"),
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LedgerOpen reports whether the ledger is currently considered unreachable.
func (c *Coordinator) LedgerOpen() bool {
	return c.breaker.IsOpen()
}

// VerifyVoter marks voter verified on the ledger (best-effort) and in the store.
// The error is non-nil only when preconditions fail; backend failures are in Result.
func (c *Coordinator) VerifyVoter(ctx context.Context, voter domain.Address) (Result, error) {
	if voter.IsNil() {
		return Result{}, dErrors.New(dErrors.CodeInvalidInput, "voter address is required")
	}
	return c.run(ctx, write{
		name:   OpVerifyVoter,
		target: voter.String(),
		ledger: func(ctx context.Context, l Ledger) (ledger.Receipt, error) {
			return l.VerifyUser(ctx, voter)
		},
		record: func(ctx context.Context, admin domain.Address, status LedgerStatus, tx string) (*offchain.Ack, error) {
			return c.store.VerifyVoter(ctx, admin, offchain.VerifyVoterCommand{
				Voter:        voter,
				LedgerStatus: string(status),
				TxHash:       tx,
			})
		},
	})
}

// ScheduleElection does not require StartTime < EndTime. The id is required so both
// backends store the election under the same number.
func (c *Coordinator) ScheduleElection(ctx context.Context, spec ledger.ElectionSpec) (Result, error) {
	if spec.ID == 0 {
		return Result{}, dErrors.New(dErrors.CodeValidation, "election id is required")
	}
	if spec.Name == "" {
		return Result{}, dErrors.New(dErrors.CodeValidation, "election name is required")
	}
	return c.run(ctx, write{
		name:   OpScheduleElection,
		target: spec.ID.String(),
		ledger: func(ctx context.Context, l Ledger) (ledger.Receipt, error) {
			return l.ScheduleElection(ctx, spec)
		},
		record: func(ctx context.Context, admin domain.Address, status LedgerStatus, tx string) (*offchain.Ack, error) {
			return c.store.RecordElection(ctx, admin, offchain.ScheduleElectionCommand{
				ID:           spec.ID,
				Name:         spec.Name,
				StartTime:    spec.StartTime,
				EndTime:      spec.EndTime,
				LedgerStatus: string(status),
				TxHash:       tx,
			})
		},
	})
}

func (c *Coordinator) AddCandidate(ctx context.Context, spec ledger.CandidateSpec) (Result, error) {
	if spec.ElectionID == 0 {
		return Result{}, dErrors.New(dErrors.CodeValidation, "election id is required")
	}
	if spec.Name == "" {
		return Result{}, dErrors.New(dErrors.CodeValidation, "candidate name is required")
	}
	return c.run(ctx, write{
		name:   OpAddCandidate,
		target: spec.ElectionID.String(),
		ledger: func(ctx context.Context, l Ledger) (ledger.Receipt, error) {
			return l.AddCandidate(ctx, spec)
		},
		record: func(ctx context.Context, admin domain.Address, status LedgerStatus, tx string) (*offchain.Ack, error) {
			return c.store.RecordCandidate(ctx, admin, offchain.AddCandidateCommand{
				ElectionID:   spec.ElectionID,
				Name:         spec.Name,
				Info:         spec.Info,
				LedgerStatus: string(status),
				TxHash:       tx,
			})
		},
	})
}

type write struct {
	name   string
	target string
	ledger func(ctx context.Context, l Ledger) (ledger.Receipt, error)
	record func(ctx context.Context, admin domain.Address, status LedgerStatus, tx string) (*offchain.Ack, error)
}

// run drives Idle -> LedgerAttempt{skippable} -> OffchainAttempt -> Committed|Rejected.
// The two attempts are strictly sequential.
func (c *Coordinator) run(ctx context.Context, w write) (Result, error) {
	admin, err := c.authorize()
	if err != nil {
		c.logger.WarnContext(ctx, "admin operation refused",
			"operation", w.name,
			"error", err,
		)
		return Result{}, err
	}

	start := time.Now()
	ctx, span := c.tracer.Start(ctx, tracer.SpanOperation,
		tracer.String(tracer.AttrOperation, w.name),
		tracer.String(tracer.AttrActor, admin.String()),
		tracer.String(tracer.AttrTarget, w.target),
	)

	res := Result{Operation: w.name}
	res.Ledger, res.TxHash, res.LedgerErr = c.attemptLedger(ctx, w)

	ack, err := c.attemptOffchain(ctx, w, admin, res.Ledger, res.TxHash)
	switch {
	case err != nil:
		res.Outcome = OutcomeRejected
		res.Message = dErrors.Message(err)
		res.Err = err
	case res.Ledger == LedgerFailed:
		res.Outcome = OutcomePartialLedgerFailure
	default:
		res.Outcome = OutcomeCommitted
	}
	if ack != nil {
		res.Message = ack.Message
		res.LogID = ack.LogID
	}

	span.SetAttributes(
		tracer.String(tracer.AttrOutcome, string(res.Outcome)),
		tracer.String(tracer.AttrLedgerStatus, string(res.Ledger)),
	)
	span.End(res.Err)
	c.metrics.ObserveOutcome(w.name, string(res.Outcome))
	c.metrics.ObserveLatency(w.name, time.Since(start).Seconds())

	level := slog.LevelInfo
	if !res.OK() {
		level = slog.LevelWarn
	}
	c.logger.Log(ctx, level, "admin operation finished",
		"operation", w.name,
		"target", w.target,
		"outcome", res.Outcome,
		"ledger_status", res.Ledger,
		"tx_hash", res.TxHash,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (c *Coordinator) authorize() (domain.Address, error) {
	admin, ok := c.identity.Current()
	if !ok || admin.IsNil() {
		return "", ErrNotConnected
	}
	if !c.identity.IsAdmin() {
		return "", ErrNotAdmin
	}
	return admin, nil
}

// attemptLedger never fails the operation. When the breaker is open the ledger is
// probed once; a successful probe closes the breaker and the call proceeds.
func (c *Coordinator) attemptLedger(ctx context.Context, w write) (LedgerStatus, string, error) {
	if c.ledger == nil {
		c.skipLedger(ctx, w.name, "not_configured")
		return LedgerSkipped, "", nil
	}
	if c.breaker.IsOpen() {
		if err := c.probeLedger(ctx, w.name); err != nil {
			c.logger.InfoContext(ctx, "ledger unreachable, skipping",
				"operation", w.name,
				"error", err,
			)
			c.skipLedger(ctx, w.name, "unreachable")
			return LedgerSkipped, "", nil
		}
		c.breaker.Reset()
		c.logger.InfoContext(ctx, "ledger reachable again", "operation", w.name)
	}

	ctx, span := c.tracer.Start(ctx, tracer.SpanLedgerAttempt, tracer.String(tracer.AttrOperation, w.name))
	receipt, err := w.ledger(ctx, c.ledger)
	if err == nil && !receipt.Success {
		err = ledger.ErrReverted
	}
	span.SetAttributes(tracer.String(tracer.AttrTxHash, receipt.TxHash))
	if err != nil {
		err = ledger.CallFailed(w.name, err)
		span.End(err)
		if change := c.breaker.RecordFailure(); change.Opened {
			c.logger.ErrorContext(ctx, "ledger circuit opened",
				"circuit", c.breaker.Name(),
				"failures", c.breaker.Failures(),
			)
		}
		c.logger.WarnContext(ctx, "ledger call failed, continuing off-chain",
			"operation", w.name,
			"target", w.target,
			"error", err,
		)
		c.metrics.ObserveLedgerAttempt(w.name, string(LedgerFailed))
		return LedgerFailed, receipt.TxHash, err
	}
	span.End(nil)
	c.breaker.RecordSuccess()
	c.metrics.ObserveLedgerAttempt(w.name, string(LedgerSucceeded))
	return LedgerSucceeded, receipt.TxHash, nil
}

func (c *Coordinator) probeLedger(ctx context.Context, op string) error {
	ctx, span := c.tracer.Start(ctx, tracer.SpanLedgerAttempt, tracer.String(tracer.AttrOperation, op))
	span.AddEvent(tracer.EventLedgerProbe)
	err := c.ledger.Reachable(ctx)
	span.End(err)
	return err
}

func (c *Coordinator) skipLedger(ctx context.Context, op, reason string) {
	c.metrics.ObserveLedgerSkipped(op, reason)
	_, span := c.tracer.Start(ctx, tracer.SpanLedgerAttempt, tracer.String(tracer.AttrOperation, op))
	span.AddEvent(tracer.EventLedgerSkipped, tracer.String("reason", reason))
	span.End(nil)
}

func (c *Coordinator) attemptOffchain(ctx context.Context, w write, admin domain.Address, status LedgerStatus, tx string) (*offchain.Ack, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanOffchainAttempt,
		tracer.String(tracer.AttrOperation, w.name),
		tracer.String(tracer.AttrLedgerStatus, string(status)),
	)
	ack, err := w.record(ctx, admin, status, tx)
	if err == nil && ack != nil && !ack.Success {
		err = dErrors.New(dErrors.CodeOffchainCallFailed, ack.Message)
		ack = nil
	}
	span.End(err)
	if err != nil {
		c.logger.ErrorContext(ctx, "offchain call failed",
			"operation", w.name,
			"target", w.target,
			"error", err,
		)
	}
	return ack, err
}
