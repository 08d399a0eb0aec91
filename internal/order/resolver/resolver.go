// Package resolver wraps the outbound identity and catalog lookups and the
// total-amount validation that gates order creation.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/shopd/order-saga/internal/order/domain"
)

// IdentityLookup is the capability the core needs from the identity service.
// Implementations return domain.ErrUserNotFound for unknown ids and plain
// transport errors otherwise.
type IdentityLookup interface {
	Lookup(ctx context.Context, userID string) (domain.Customer, error)
}

// CatalogLookup batch-resolves product ids to catalog records. Unknown ids
// are simply absent from the result; the resolver decides what that means.
type CatalogLookup interface {
	Lookup(ctx context.Context, productIDs []string) ([]domain.ProductSnapshot, error)
}

// DefaultTimeout bounds each outbound lookup so a hung collaborator cannot
// stall the whole saga.
const DefaultTimeout = 5 * time.Second

type Resolver struct {
	identity IdentityLookup
	catalog  CatalogLookup
	timeout  time.Duration
}

func New(identity IdentityLookup, catalog CatalogLookup) *Resolver {
	return &Resolver{
		identity: identity,
		catalog:  catalog,
		timeout:  DefaultTimeout,
	}
}

// ResolveCustomer fetches the identity snapshot for the authenticated user.
// Unknown users surface as domain.ErrUserNotFound; everything else is
// wrapped as an UnavailableError.
func (r *Resolver) ResolveCustomer(ctx context.Context, userID string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	customer, err := r.identity.Lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Customer{}, err
		}
		return domain.Customer{}, &domain.UnavailableError{Service: "identity", Err: err}
	}
	return customer, nil
}

// ResolveProducts fetches catalog snapshots for the full id set in one batch.
// Every requested id must resolve; any miss rejects the whole order. The
// returned snapshots follow the order of the requested ids.
func (r *Resolver) ResolveProducts(ctx context.Context, productIDs []string) ([]domain.ProductSnapshot, error) {
	if len(productIDs) == 0 {
		return nil, domain.ErrNoProducts
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	found, err := r.catalog.Lookup(ctx, productIDs)
	if err != nil {
		return nil, &domain.UnavailableError{Service: "catalog", Err: err}
	}

	byID := make(map[string]domain.ProductSnapshot, len(found))
	for _, p := range found {
		byID[p.ProductID] = p
	}

	snapshots := make([]domain.ProductSnapshot, 0, len(productIDs))
	var missing []string
	for _, id := range productIDs {
		p, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		snapshots = append(snapshots, p)
	}
	if len(missing) > 0 {
		return nil, &domain.ProductsNotFoundError{Missing: missing}
	}
	return snapshots, nil
}

// ComputeTotal sums the snapshot prices. Pure; zero for empty input.
func ComputeTotal(products []domain.ProductSnapshot) int64 {
	var total int64
	for _, p := range products {
		total += p.Price
	}
	return total
}

// ValidateAmount requires exact equality between the computed total and the
// client-declared amount. No tolerance: amounts are integer minor units.
func ValidateAmount(computed, declared int64) error {
	if computed != declared {
		return &domain.AmountMismatchError{Computed: computed, Declared: declared}
	}
	return nil
}
