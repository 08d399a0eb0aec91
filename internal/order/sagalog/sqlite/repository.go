// Package sqlite persists the saga log. The table is append-only: querying
// the latest row per order_id gives the saga's current state.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopd/order-saga/internal/order/sagalog"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS saga_logs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Order id; several rows exist per order, one per transition.
    order_id    TEXT NOT NULL,

    status      TEXT NOT NULL,
    step        TEXT NOT NULL DEFAULT '',
    detail      TEXT NOT NULL DEFAULT '',

    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',

    recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saga_logs_order ON saga_logs(order_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_saga_logs_trace ON saga_logs(trace_id);
`

// timeLayout keeps the fractional second fixed-width so the ORDER BY on the
// TEXT column is chronological; RFC3339Nano trims trailing zeros.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var _ sagalog.Repository = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the log database at path with WAL enabled.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sagalog: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sagalog: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Append(ctx context.Context, entry *sagalog.Entry) error {
	const q = `
		INSERT INTO saga_logs (order_id, status, step, detail, trace_id, span_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Status),
		entry.Step,
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		entry.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sagalog: append entry for order %s: %w", entry.OrderID, err)
	}
	return nil
}

// Latest returns the most recent entry for an order, for status endpoints
// and post-crash inspection.
func (r *Repository) Latest(ctx context.Context, orderID string) (*sagalog.Entry, error) {
	const q = `
		SELECT order_id, status, step, detail, trace_id, span_id, recorded_at
		FROM   saga_logs
		WHERE  order_id = ?
		ORDER  BY recorded_at DESC, id DESC
		LIMIT  1`

	var (
		entry      sagalog.Entry
		recordedAt string
	)
	err := r.db.QueryRowContext(ctx, q, orderID).Scan(
		&entry.OrderID,
		&entry.Status,
		&entry.Step,
		&entry.Detail,
		&entry.TraceID,
		&entry.SpanID,
		&recordedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sagalog: no entries for order %s", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("sagalog: latest entry for order %s: %w", orderID, err)
	}

	entry.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("sagalog: parse time %q: %w", recordedAt, err)
	}
	return &entry, nil
}
