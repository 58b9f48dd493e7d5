// Package tracer provides a lightweight tracing abstraction for administrative operations.
//
// Callers depend on the Tracer interface rather than on OpenTelemetry APIs directly.
// Implementations:
//   - NoopTracer: for tests
//   - OTelTracer: OpenTelemetry adapter
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording err when non-nil. Call exactly once.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := t.Start(ctx, tracer.SpanLedgerAttempt,
//	    tracer.String(tracer.AttrOperation, "verify_voter"),
//	)
//	defer span.End(nil)
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names for the admin write state machine.
const (
	SpanOperation       = "admin.operation"
	SpanLedgerAttempt   = "admin.ledger_attempt"
	SpanOffchainAttempt = "admin.offchain_attempt"
)

const (
	AttrOperation    = "operation"
	AttrActor        = "actor"
	AttrTarget       = "target"
	AttrLedgerStatus = "ledger.status"
	AttrTxHash       = "ledger.tx_hash"
	AttrOutcome      = "outcome"
)

const (
	EventLedgerSkipped = "ledger.skipped"
	EventLedgerProbe   = "ledger.probe"
)
