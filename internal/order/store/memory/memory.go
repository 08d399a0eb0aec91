// Package memory is the in-memory Store used in tests and local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopd/order-saga/internal/order/domain"
	"github.com/shopd/order-saga/internal/order/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// now is swappable so tests can control timestamps.
	now func() time.Time
}

func New() *Store {
	return &Store{
		orders: make(map[string]*domain.Order),
		now:    time.Now,
	}
}

func (s *Store) Create(ctx context.Context, customer domain.Customer, products []domain.ProductSnapshot, address domain.Address, payment domain.Payment) (*domain.Order, error) {
	if len(products) == 0 {
		return nil, domain.ErrNoProducts
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	order := &domain.Order{
		ID:              uuid.NewString(),
		Customer:        customer,
		Products:        append([]domain.ProductSnapshot(nil), products...),
		DeliveryAddress: address,
		Payment:         payment,
		Status:          domain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         0,
	}
	s.orders[order.ID] = order

	return order.Clone(), nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order.Clone(), nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, next domain.Status) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	if order.Status == next {
		// Idempotent re-application of the current status.
		return order.Clone(), nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, &domain.TransitionError{
			OrderID: id,
			From:    order.Status,
			To:      next,
			Version: order.Version,
		}
	}

	order.Status = next
	order.UpdatedAt = s.now().UTC()
	order.Version++

	return order.Clone(), nil
}

func (s *Store) ListStalePending(ctx context.Context, olderThan time.Time) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stale []*domain.Order
	for _, order := range s.orders {
		if order.Status == domain.StatusPending && order.UpdatedAt.Before(olderThan) {
			stale = append(stale, order.Clone())
		}
	}
	return stale, nil
}
