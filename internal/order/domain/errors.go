package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the simple failure cases. Callers match them with
// errors.Is after any number of fmt.Errorf("%w") wraps.
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNoProducts    = errors.New("order must contain at least one product")
	ErrUserNotFound  = errors.New("user not found")
)

// UnavailableError marks a dependency transport failure (network, timeout).
// It deliberately does not imply anything about the business outcome of the
// attempted call.
type UnavailableError struct {
	Service string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ProductsNotFoundError is raised when a catalog batch lookup comes back
// without one or more of the requested ids. The whole order is rejected
// rather than silently dropping unknown items.
type ProductsNotFoundError struct {
	Missing []string
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("unknown products: %s", strings.Join(e.Missing, ", "))
}

// AmountMismatchError is raised when the declared payment amount does not
// equal the sum of the snapshot prices. Nothing is persisted in that case.
type AmountMismatchError struct {
	Computed int64
	Declared int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("declared amount %d does not match computed total %d", e.Declared, e.Computed)
}

// DeclinedError is raised when the payment processor answers with a decline.
// By the time it reaches the caller the order has already been moved to
// paymentFailed.
type DeclinedError struct {
	OrderID string
	Raw     string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment declined for order %s (%s)", e.OrderID, e.Raw)
}

// TransitionError is raised by stores when a status write would move an
// order backwards or skip a state. The version at the time of the refused
// write is included for diagnostics.
type TransitionError struct {
	OrderID string
	From    Status
	To      Status
	Version int64
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order %s: illegal status transition %s -> %s (version %d)", e.OrderID, e.From, e.To, e.Version)
}
