package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopd/order-saga/internal/order/sagalog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "sagalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func appendEntry(t *testing.T, r *Repository, orderID string, status sagalog.Status, step string, at time.Time) {
	t.Helper()
	err := r.Append(context.Background(), &sagalog.Entry{
		OrderID:    orderID,
		Status:     status,
		Step:       step,
		RecordedAt: at,
	})
	require.NoError(t, err)
}

func TestLatest_ReturnsNewestEntryPerOrder(t *testing.T) {
	r := openTestRepo(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, r, "ord-1", sagalog.StatusStarted, sagalog.StepCreateOrder, base)
	appendEntry(t, r, "ord-1", sagalog.StatusCompleted, sagalog.StepCharge, base.Add(time.Second))
	appendEntry(t, r, "ord-2", sagalog.StatusFailed, sagalog.StepCharge, base.Add(2*time.Second))

	latest, err := r.Latest(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusCompleted, latest.Status)
	assert.Equal(t, sagalog.StepCharge, latest.Step)
	assert.True(t, latest.RecordedAt.Equal(base.Add(time.Second)))

	latest, err = r.Latest(context.Background(), "ord-2")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusFailed, latest.Status)
}

// Entries recorded fractions of a second apart must come back in time
// order; the column is TEXT, so the stored format has to sort correctly.
func TestLatest_SubSecondOrdering(t *testing.T) {
	r := openTestRepo(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, r, "ord-1", sagalog.StatusStarted, sagalog.StepCreateOrder, base.Add(123*time.Millisecond))
	appendEntry(t, r, "ord-1", sagalog.StatusStepDone, sagalog.StepCharge, base.Add(time.Second))

	latest, err := r.Latest(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusStepDone, latest.Status)
}

func TestLatest_SameTimestampBreaksTieByInsertion(t *testing.T) {
	r := openTestRepo(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, r, "ord-1", sagalog.StatusStarted, sagalog.StepCreateOrder, at)
	appendEntry(t, r, "ord-1", sagalog.StatusStepDone, sagalog.StepCharge, at)

	latest, err := r.Latest(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusStepDone, latest.Status)
}

func TestLatest_UnknownOrder(t *testing.T) {
	r := openTestRepo(t)

	_, err := r.Latest(context.Background(), "missing")
	assert.Error(t, err)
}
