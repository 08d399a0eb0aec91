package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopd/order-saga/internal/order/domain"
)

type mockIdentity struct {
	customers map[string]domain.Customer
	err       error
}

func (m *mockIdentity) Lookup(ctx context.Context, userID string) (domain.Customer, error) {
	if m.err != nil {
		return domain.Customer{}, m.err
	}
	c, ok := m.customers[userID]
	if !ok {
		return domain.Customer{}, domain.ErrUserNotFound
	}
	return c, nil
}

type mockCatalog struct {
	products map[string]domain.ProductSnapshot
	err      error
}

func (m *mockCatalog) Lookup(ctx context.Context, ids []string) ([]domain.ProductSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.ProductSnapshot
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestResolver(identity *mockIdentity, catalog *mockCatalog) *Resolver {
	return New(identity, catalog)
}

func TestResolveCustomer(t *testing.T) {
	r := newTestResolver(&mockIdentity{
		customers: map[string]domain.Customer{
			"user-1": {UserID: "user-1", Email: "amelie@example.com", Name: "Amelie"},
		},
	}, &mockCatalog{})

	customer, err := r.ResolveCustomer(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "amelie@example.com", customer.Email)
}

func TestResolveCustomer_Unknown(t *testing.T) {
	r := newTestResolver(&mockIdentity{customers: map[string]domain.Customer{}}, &mockCatalog{})

	_, err := r.ResolveCustomer(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestResolveCustomer_TransportFailureWrapsUnavailable(t *testing.T) {
	r := newTestResolver(&mockIdentity{err: errors.New("connection refused")}, &mockCatalog{})

	_, err := r.ResolveCustomer(context.Background(), "user-1")

	var unavailable *domain.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "identity", unavailable.Service)
}

func TestResolveProducts_KeepsRequestOrder(t *testing.T) {
	r := newTestResolver(&mockIdentity{}, &mockCatalog{
		products: map[string]domain.ProductSnapshot{
			"p1": {ProductID: "p1", Name: "Grinder", Price: 1000},
			"p2": {ProductID: "p2", Name: "Kettle", Price: 1500},
		},
	})

	snapshots, err := r.ResolveProducts(context.Background(), []string{"p2", "p1"})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "p2", snapshots[0].ProductID)
	assert.Equal(t, "p1", snapshots[1].ProductID)
}

func TestResolveProducts_EmptyInput(t *testing.T) {
	r := newTestResolver(&mockIdentity{}, &mockCatalog{})

	_, err := r.ResolveProducts(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoProducts)
}

func TestResolveProducts_PartialMissRejectsWholeOrder(t *testing.T) {
	r := newTestResolver(&mockIdentity{}, &mockCatalog{
		products: map[string]domain.ProductSnapshot{
			"p1": {ProductID: "p1", Price: 1000},
		},
	})

	_, err := r.ResolveProducts(context.Background(), []string{"p1", "ghost", "phantom"})

	var miss *domain.ProductsNotFoundError
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, []string{"ghost", "phantom"}, miss.Missing)
}

func TestResolveProducts_CatalogDown(t *testing.T) {
	r := newTestResolver(&mockIdentity{}, &mockCatalog{err: errors.New("timeout")})

	_, err := r.ResolveProducts(context.Background(), []string{"p1"})

	var unavailable *domain.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "catalog", unavailable.Service)
}

func TestComputeTotal(t *testing.T) {
	assert.Equal(t, int64(0), ComputeTotal(nil))
	assert.Equal(t, int64(2500), ComputeTotal([]domain.ProductSnapshot{
		{Price: 1000},
		{Price: 1500},
	}))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(2500, 2500))

	err := ValidateAmount(2500, 3000)
	var mismatch *domain.AmountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(2500), mismatch.Computed)
	assert.Equal(t, int64(3000), mismatch.Declared)
}
