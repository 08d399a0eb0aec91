package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopd/order-saga/internal/order/domain"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func createTestOrder(t *testing.T, r *Repository) *domain.Order {
	t.Helper()
	order, err := r.Create(context.Background(),
		domain.Customer{UserID: "user-1", Email: "amelie@example.com", Name: "Amelie"},
		[]domain.ProductSnapshot{
			{ProductID: "p1", Name: "Grinder", Price: 1000},
			{ProductID: "p2", Name: "Kettle", Price: 1500},
		},
		domain.Address{Street: "1 Main St", City: "Utrecht", PostalCode: "3511", Country: "NL"},
		domain.Payment{Method: "card", Amount: 2500},
	)
	require.NoError(t, err)
	return order
}

// setUpdatedAt rewrites the row's timestamp so staleness tests control the
// clock without sleeping.
func setUpdatedAt(t *testing.T, r *Repository, id string, at time.Time) {
	t.Helper()
	_, err := r.db.Exec(`UPDATE orders SET updated_at = ? WHERE id = ?`, formatTime(at), id)
	require.NoError(t, err)
}

func TestCreateAndGet_RoundTrip(t *testing.T) {
	r := openTestRepo(t)
	order := createTestOrder(t, r)

	got, err := r.Get(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.Customer, got.Customer)
	assert.Equal(t, order.Products, got.Products)
	assert.Equal(t, order.DeliveryAddress, got.DeliveryAddress)
	assert.Equal(t, order.Payment, got.Payment)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, int64(0), got.Version)
	assert.True(t, order.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, order.UpdatedAt.Equal(got.UpdatedAt))
}

func TestCreate_EmptyProducts(t *testing.T) {
	r := openTestRepo(t)

	_, err := r.Create(context.Background(),
		domain.Customer{UserID: "user-1"}, nil, domain.Address{}, domain.Payment{})
	assert.ErrorIs(t, err, domain.ErrNoProducts)
}

func TestGet_NotFound(t *testing.T) {
	r := openTestRepo(t)

	_, err := r.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateStatus_BumpsVersionAndTimestamp(t *testing.T) {
	r := openTestRepo(t)
	order := createTestOrder(t, r)

	updated, err := r.UpdateStatus(context.Background(), order.ID, domain.StatusPaymentProcessed)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaymentProcessed, updated.Status)
	assert.Equal(t, int64(1), updated.Version)
	assert.False(t, updated.UpdatedAt.Before(order.UpdatedAt))
}

func TestUpdateStatus_IllegalTransitionLeavesRecordUntouched(t *testing.T) {
	r := openTestRepo(t)
	order := createTestOrder(t, r)

	_, err := r.UpdateStatus(context.Background(), order.ID, domain.StatusDeliveryStarted)

	var transition *domain.TransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, domain.StatusPending, transition.From)
	assert.Equal(t, domain.StatusDeliveryStarted, transition.To)

	got, err := r.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, int64(0), got.Version)
}

func TestUpdateStatus_SameStatusIsNoOp(t *testing.T) {
	r := openTestRepo(t)
	order := createTestOrder(t, r)

	_, err := r.UpdateStatus(context.Background(), order.ID, domain.StatusPaymentProcessed)
	require.NoError(t, err)

	again, err := r.UpdateStatus(context.Background(), order.ID, domain.StatusPaymentProcessed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.Version, "re-applying the current status must not bump the version")
}

func TestUpdateStatus_NotFound(t *testing.T) {
	r := openTestRepo(t)

	_, err := r.UpdateStatus(context.Background(), "missing", domain.StatusPaymentProcessed)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListStalePending(t *testing.T) {
	r := openTestRepo(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stuck := createTestOrder(t, r)
	setUpdatedAt(t, r, stuck.ID, base.Add(-10*time.Minute))

	fresh := createTestOrder(t, r)
	setUpdatedAt(t, r, fresh.ID, base.Add(-time.Minute))

	settled := createTestOrder(t, r)
	_, err := r.UpdateStatus(context.Background(), settled.ID, domain.StatusPaymentProcessed)
	require.NoError(t, err)
	setUpdatedAt(t, r, settled.ID, base.Add(-10*time.Minute))

	stale, err := r.ListStalePending(context.Background(), base.Add(-5*time.Minute))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, stuck.ID, stale[0].ID)
	assert.Equal(t, domain.StatusPending, stale[0].Status)
}

// An order updated a fraction of a second after a whole-second cutoff must
// not be reported stale. The stored timestamps are compared as TEXT, so the
// format has to keep string order and time order aligned.
func TestListStalePending_FractionalSecondBoundary(t *testing.T) {
	r := openTestRepo(t)
	cutoff := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	order := createTestOrder(t, r)
	setUpdatedAt(t, r, order.ID, cutoff.Add(123*time.Millisecond))

	stale, err := r.ListStalePending(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Empty(t, stale, "order updated after the cutoff reported stale")

	stale, err = r.ListStalePending(context.Background(), cutoff.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, order.ID, stale[0].ID)
}
