// Package store defines the persistence port for the Order aggregate.
// Implementations live in the memory and sqlite sub-packages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopd/order-saga/internal/order/domain"
)

// ErrVersionConflict is returned when an optimistic write loses the race to
// a concurrent mutation of the same order. Callers may re-read and retry.
var ErrVersionConflict = errors.New("order version conflict")

// Store owns the persisted Order aggregate.
//
// All methods are safe for concurrent use across order ids. UpdateStatus
// enforces the forward-only status state machine: an illegal transition
// fails with *domain.TransitionError, and writing the status an order
// already has is an idempotent no-op that returns the current record
// without bumping the version.
type Store interface {
	// Create persists a new order with status pending and version 0.
	// The write is atomic: the order is either fully visible or absent.
	Create(ctx context.Context, customer domain.Customer, products []domain.ProductSnapshot, address domain.Address, payment domain.Payment) (*domain.Order, error)

	// Get returns the order or domain.ErrOrderNotFound.
	Get(ctx context.Context, id string) (*domain.Order, error)

	// UpdateStatus moves the order to next, bumping UpdatedAt and Version.
	UpdateStatus(ctx context.Context, id string, next domain.Status) (*domain.Order, error)

	// ListStalePending returns orders still pending whose last update is
	// older than the given instant. Used by the payment reconciler.
	ListStalePending(ctx context.Context, olderThan time.Time) ([]*domain.Order, error)
}
