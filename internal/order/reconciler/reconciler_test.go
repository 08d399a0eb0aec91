package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopd/order-saga/internal/order/domain"
	"github.com/shopd/order-saga/internal/order/payment"
	"github.com/shopd/order-saga/internal/order/sagalog"
	"github.com/shopd/order-saga/internal/order/store/memory"
)

type scriptedCharger struct {
	outcome payment.Outcome
	err     error
	charged []string
}

func (c *scriptedCharger) Charge(ctx context.Context, orderID string, amount int64, method, payerEmail string) (payment.Outcome, error) {
	c.charged = append(c.charged, orderID)
	if c.err != nil {
		return payment.Outcome{}, c.err
	}
	return c.outcome, nil
}

func newPendingOrder(t *testing.T, st *memory.Store) *domain.Order {
	t.Helper()
	order, err := st.Create(context.Background(),
		domain.Customer{UserID: "user-1", Email: "amelie@example.com", Name: "Amelie"},
		[]domain.ProductSnapshot{{ProductID: "p1", Name: "Grinder", Price: 1000}},
		domain.Address{Street: "1 Main St", City: "Utrecht", PostalCode: "3511", Country: "NL"},
		domain.Payment{Method: "card", Amount: 1000},
	)
	require.NoError(t, err)
	return order
}

// A negative minAge puts the staleness cutoff in the future, so freshly
// created pending orders qualify immediately.
const anyAge = -time.Second

func TestReconcileOnce_ApprovedChargeSettlesOrder(t *testing.T) {
	st := memory.New()
	charger := &scriptedCharger{outcome: payment.Outcome{Approved: true, Raw: "Approved"}}
	log := sagalog.NewMemoryRepository()
	stuck := newPendingOrder(t, st)

	r := New(st, payment.NewCoordinator(charger), log, time.Minute, anyAge)
	require.NoError(t, r.ReconcileOnce(context.Background()))

	assert.Equal(t, []string{stuck.ID}, charger.charged)

	order, err := st.Get(context.Background(), stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentProcessed, order.Status)

	entries := log.ByOrder(stuck.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, sagalog.StatusCompleted, entries[0].Status)
	assert.Equal(t, sagalog.StepReconcile, entries[0].Step)
}

func TestReconcileOnce_DeclinedChargeFailsOrder(t *testing.T) {
	st := memory.New()
	charger := &scriptedCharger{outcome: payment.Outcome{Approved: false, Raw: "Declined"}}
	log := sagalog.NewMemoryRepository()
	stuck := newPendingOrder(t, st)

	r := New(st, payment.NewCoordinator(charger), log, time.Minute, anyAge)
	require.NoError(t, r.ReconcileOnce(context.Background()))

	order, err := st.Get(context.Background(), stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentFailed, order.Status)

	entries := log.ByOrder(stuck.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, sagalog.StatusFailed, entries[0].Status)
}

func TestReconcileOnce_StillUnavailableLeavesPending(t *testing.T) {
	st := memory.New()
	charger := &scriptedCharger{err: errors.New("dial tcp: refused")}
	stuck := newPendingOrder(t, st)

	r := New(st, payment.NewCoordinator(charger), nil, time.Minute, anyAge)
	require.NoError(t, r.ReconcileOnce(context.Background()))

	order, err := st.Get(context.Background(), stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, order.Status)
}

func TestReconcileOnce_SkipsSettledOrders(t *testing.T) {
	st := memory.New()
	charger := &scriptedCharger{outcome: payment.Outcome{Approved: true}}
	settled := newPendingOrder(t, st)
	_, err := st.UpdateStatus(context.Background(), settled.ID, domain.StatusPaymentProcessed)
	require.NoError(t, err)

	r := New(st, payment.NewCoordinator(charger), nil, time.Minute, anyAge)
	require.NoError(t, r.ReconcileOnce(context.Background()))

	assert.Empty(t, charger.charged)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	st := memory.New()
	charger := &scriptedCharger{outcome: payment.Outcome{Approved: true}}
	r := New(st, payment.NewCoordinator(charger), nil, time.Millisecond, anyAge)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
