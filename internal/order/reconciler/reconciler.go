// Package reconciler resolves orders left pending by a payment transport
// failure or a crash between the durable create and the status write.
//
// It runs outside the synchronous saga path: a ticker scans for orders stuck
// pending beyond a threshold and re-drives the payment step. The payment
// service keys charges by order id, so a re-attempt of an already captured
// charge is answered idempotently rather than double-billed.
package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopd/order-saga/internal/order/domain"
	"github.com/shopd/order-saga/internal/order/payment"
	"github.com/shopd/order-saga/internal/order/sagalog"
	"github.com/shopd/order-saga/internal/order/store"
)

type Reconciler struct {
	store    store.Store
	payments *payment.Coordinator
	log      sagalog.Repository // nil-safe

	interval time.Duration
	minAge   time.Duration
}

func New(st store.Store, pay *payment.Coordinator, log sagalog.Repository, interval, minAge time.Duration) *Reconciler {
	return &Reconciler{
		store:    st,
		payments: pay,
		log:      log,
		interval: interval,
		minAge:   minAge,
	}
}

// Run blocks until ctx is cancelled, reconciling on every tick.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.ReconcileOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "reconcile pass failed", "error", err)
			}
		}
	}
}

// ReconcileOnce processes every order stuck pending longer than minAge.
func (r *Reconciler) ReconcileOnce(ctx context.Context) error {
	stale, err := r.store.ListStalePending(ctx, time.Now().Add(-r.minAge))
	if err != nil {
		return err
	}

	for _, order := range stale {
		r.reconcile(ctx, order)
	}
	return nil
}

func (r *Reconciler) reconcile(ctx context.Context, order *domain.Order) {
	slog.InfoContext(ctx, "reconciling stuck pending order", "order_id", order.ID)

	err := r.payments.Charge(ctx, order.ID, order.Payment, order.Customer.Email)

	var declined *domain.DeclinedError
	switch {
	case err == nil:
		if _, uerr := r.store.UpdateStatus(ctx, order.ID, domain.StatusPaymentProcessed); uerr != nil {
			slog.ErrorContext(ctx, "reconciler could not record payment success",
				"order_id", order.ID, "error", uerr)
			return
		}
		r.appendLog(ctx, order.ID, sagalog.StatusCompleted, "")

	case errors.As(err, &declined):
		if _, uerr := r.store.UpdateStatus(ctx, order.ID, domain.StatusPaymentFailed); uerr != nil {
			slog.ErrorContext(ctx, "reconciler could not record payment decline",
				"order_id", order.ID, "error", uerr)
			return
		}
		r.appendLog(ctx, order.ID, sagalog.StatusFailed, err.Error())

	default:
		// Still unreachable; leave the order pending for the next pass.
		slog.WarnContext(ctx, "payment still unavailable, leaving order pending",
			"order_id", order.ID, "error", err)
	}
}

func (r *Reconciler) appendLog(ctx context.Context, orderID string, status sagalog.Status, detail string) {
	if r.log == nil {
		return
	}
	if err := r.log.Append(ctx, sagalog.NewEntry(ctx, orderID, status, sagalog.StepReconcile, detail)); err != nil {
		slog.ErrorContext(ctx, "saga log append failed", "order_id", orderID, "error", err)
	}
}
