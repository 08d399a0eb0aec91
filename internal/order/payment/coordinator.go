// Package payment decides an order's fate from the payment collaborator's
// answer: approved, declined, or unknown (transport failure).
package payment

import (
	"context"
	"time"

	"github.com/shopd/order-saga/internal/order/domain"
)

// Outcome is the processor's answer to a charge attempt. Raw carries the
// provider's literal status string for audit logs and decline errors.
type Outcome struct {
	Approved bool
	Raw      string
}

// Charger is the capability the core needs from the payment service.
// A returned error means the call itself failed and the charge outcome is
// unknown; a decline is a successful call with Approved == false.
type Charger interface {
	Charge(ctx context.Context, orderID string, amount int64, method, payerEmail string) (Outcome, error)
}

// DefaultTimeout bounds the charge call.
const DefaultTimeout = 10 * time.Second

type Coordinator struct {
	charger Charger
	timeout time.Duration
}

func NewCoordinator(charger Charger) *Coordinator {
	return &Coordinator{
		charger: charger,
		timeout: DefaultTimeout,
	}
}

// Charge attempts to capture the declared amount.
//
//   - approved: returns nil; the caller moves the order to paymentProcessed.
//   - declined: returns *domain.DeclinedError; the caller records
//     paymentFailed and re-raises.
//   - transport failure: returns *domain.UnavailableError; the caller must
//     leave the order untouched, because the money may or may not have moved.
func (c *Coordinator) Charge(ctx context.Context, orderID string, pay domain.Payment, payerEmail string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	outcome, err := c.charger.Charge(ctx, orderID, pay.Amount, pay.Method, payerEmail)
	if err != nil {
		return &domain.UnavailableError{Service: "payment", Err: err}
	}
	if !outcome.Approved {
		return &domain.DeclinedError{OrderID: orderID, Raw: outcome.Raw}
	}
	return nil
}
