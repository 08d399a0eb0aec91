// Package sagalog is the durable audit trail of the create-order saga.
//
// Each state transition appends one immutable entry keyed by the order id,
// stamped with the OpenTelemetry trace active at the time, so a stuck or
// failed order can be traced from the database straight to the distributed
// trace that produced it.
package sagalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Status is the lifecycle state of one saga execution.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusStepDone  Status = "STEP_DONE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Step names recorded by the order saga.
const (
	StepCreateOrder = "create_order"
	StepCharge      = "charge_payment"
	StepDelivery    = "delivery_started"
	StepReconcile   = "reconcile_payment"
)

// Entry is one row in the saga log.
type Entry struct {
	// OrderID doubles as the saga id so the log joins with business data.
	OrderID string

	Status Status

	// Step that just executed or failed.
	Step string

	// Detail holds failure text; empty on success entries.
	Detail string

	// TraceID and SpanID identify the OTel span active at write time.
	TraceID string
	SpanID  string

	RecordedAt time.Time
}

// Repository is the persistence port for the log. The table is append-only;
// each Append adds a row, never an upsert.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
}

// NewEntry builds an Entry with trace identifiers lifted from ctx. Both are
// empty when no span is active (unit tests, background jobs without tracing).
func NewEntry(ctx context.Context, orderID string, status Status, step, detail string) *Entry {
	entry := &Entry{
		OrderID:    orderID,
		Status:     status,
		Step:       step,
		Detail:     detail,
		RecordedAt: time.Now().UTC(),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
