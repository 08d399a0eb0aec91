// Package saga orchestrates the create-order flow: identity lookup, catalog
// lookup, amount validation, durable create, payment capture and status
// bookkeeping, plus the asynchronous delivery-started completion path.
package saga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopd/order-saga/internal/order/domain"
	"github.com/shopd/order-saga/internal/order/payment"
	"github.com/shopd/order-saga/internal/order/resolver"
	"github.com/shopd/order-saga/internal/order/sagalog"
	"github.com/shopd/order-saga/internal/order/store"
)

// CreateOrderRequest is the validated checkout input. UserID comes from the
// authenticated session; everything else from the client.
type CreateOrderRequest struct {
	UserID     string
	ProductIDs []string
	Address    domain.Address
	Payment    domain.Payment
}

// Saga composes the resolver, the store and the payment coordinator into the
// end-to-end order creation flow. One instance serves all requests; each
// invocation is an independent unit of work.
type Saga struct {
	resolver *resolver.Resolver
	store    store.Store
	payments *payment.Coordinator
	log      sagalog.Repository // nil-safe: audit logging skipped if nil
}

func New(res *resolver.Resolver, st store.Store, pay *payment.Coordinator, log sagalog.Repository) *Saga {
	return &Saga{
		resolver: res,
		store:    st,
		payments: pay,
		log:      log,
	}
}

// CreateOrder runs the saga. Steps 1-3 are pure validation: any failure
// there aborts with nothing persisted. Step 4 is the durability point;
// failures after it are recorded on the order, not erased.
func (s *Saga) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	if len(req.ProductIDs) == 0 {
		return nil, domain.ErrNoProducts
	}

	// 1. Identity snapshot.
	customer, err := s.resolver.ResolveCustomer(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	// 2. Catalog snapshots, whole batch or nothing.
	products, err := s.resolver.ResolveProducts(ctx, req.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	// 3. The declared amount must equal the snapshot total exactly.
	if err := resolver.ValidateAmount(resolver.ComputeTotal(products), req.Payment.Amount); err != nil {
		return nil, err
	}

	// 4. Durability point.
	order, err := s.store.Create(ctx, customer, products, req.Address, req.Payment)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.appendLog(ctx, order.ID, sagalog.StatusStarted, sagalog.StepCreateOrder, "")

	// 5. Payment capture and status bookkeeping.
	chargeErr := s.payments.Charge(ctx, order.ID, order.Payment, customer.Email)
	switch {
	case chargeErr == nil:
		updated, err := s.store.UpdateStatus(ctx, order.ID, domain.StatusPaymentProcessed)
		if err != nil {
			return nil, fmt.Errorf("record payment success for order %s: %w", order.ID, err)
		}
		s.appendLog(ctx, order.ID, sagalog.StatusStepDone, sagalog.StepCharge, "")
		s.appendLog(ctx, order.ID, sagalog.StatusCompleted, sagalog.StepCharge, "")
		return updated, nil

	case isDeclined(chargeErr):
		// The decline is durable even though the call ultimately errors:
		// write the failed status before re-raising.
		if _, err := s.store.UpdateStatus(ctx, order.ID, domain.StatusPaymentFailed); err != nil {
			slog.ErrorContext(ctx, "failed to record payment decline",
				"order_id", order.ID, "decline", chargeErr, "error", err)
		}
		s.appendLog(ctx, order.ID, sagalog.StatusFailed, sagalog.StepCharge, chargeErr.Error())
		return nil, chargeErr

	default:
		// Transport failure: the charge outcome is unknown, so the order
		// stays pending. The reconciler picks it up later.
		s.appendLog(ctx, order.ID, sagalog.StatusFailed, sagalog.StepCharge, chargeErr.Error())
		return nil, fmt.Errorf("charge order %s: %w", order.ID, chargeErr)
	}
}

// GetOrder is a point read of the persisted aggregate.
func (s *Saga) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.store.Get(ctx, orderID)
}

// DeliveryStarted handles the inbound delivery event. It arrives out-of-band
// from the notification subsystem, possibly long after CreateOrder returned
// and on its own execution context.
//
// Re-delivery of the same event is harmless: setting the status an order
// already has is a store-level no-op. An event for an order that never
// reached paymentProcessed is refused with *domain.TransitionError.
func (s *Saga) DeliveryStarted(ctx context.Context, orderID string) error {
	if _, err := s.store.UpdateStatus(ctx, orderID, domain.StatusDeliveryStarted); err != nil {
		return err
	}
	s.appendLog(ctx, orderID, sagalog.StatusStepDone, sagalog.StepDelivery, "")
	return nil
}

func (s *Saga) appendLog(ctx context.Context, orderID string, status sagalog.Status, step, detail string) {
	if s.log == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, orderID, status, step, detail)
	if err := s.log.Append(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "saga log append failed", "order_id", orderID, "step", step, "error", err)
	}
}

func isDeclined(err error) bool {
	var declined *domain.DeclinedError
	return errors.As(err, &declined)
}
