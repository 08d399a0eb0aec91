// Package sqlite is the durable Store implementation.
//
// WAL mode is enabled on Open so readers never block writers: the
// delivery-started handler and the reconciler may touch the table while a
// create-order saga is in flight.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopd/order-saga/internal/order/domain"
	"github.com/shopd/order-saga/internal/order/store"

	// Pure-Go SQLite driver, no CGO.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id            TEXT PRIMARY KEY,

    -- Write-once snapshots, stored as JSON.
    customer      TEXT    NOT NULL,
    products      TEXT    NOT NULL,
    address       TEXT    NOT NULL,
    payment       TEXT    NOT NULL,

    status        TEXT    NOT NULL,

    -- RFC3339 TEXT, the SQLite idiom for timestamps.
    created_at    TEXT    NOT NULL,
    updated_at    TEXT    NOT NULL,

    -- Optimistic-concurrency token, bumped on every mutation.
    version       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_orders_status_updated ON orders(status, updated_at);
`

var _ store.Store = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Create(ctx context.Context, customer domain.Customer, products []domain.ProductSnapshot, address domain.Address, payment domain.Payment) (*domain.Order, error) {
	if len(products) == 0 {
		return nil, domain.ErrNoProducts
	}

	now := time.Now().UTC()
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

	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return nil, fmt.Errorf("sqlite: marshal customer: %w", err)
	}
	productsJSON, err := json.Marshal(order.Products)
	if err != nil {
		return nil, fmt.Errorf("sqlite: marshal products: %w", err)
	}
	addressJSON, err := json.Marshal(order.DeliveryAddress)
	if err != nil {
		return nil, fmt.Errorf("sqlite: marshal address: %w", err)
	}
	paymentJSON, err := json.Marshal(order.Payment)
	if err != nil {
		return nil, fmt.Errorf("sqlite: marshal payment: %w", err)
	}

	const q = `
		INSERT INTO orders (id, customer, products, address, payment, status, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, q,
		order.ID,
		string(customerJSON),
		string(productsJSON),
		string(addressJSON),
		string(paymentJSON),
		string(order.Status),
		formatTime(order.CreatedAt),
		formatTime(order.UpdatedAt),
		order.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: insert order %s: %w", order.ID, err)
	}

	return order, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
		SELECT id, customer, products, address, payment, status, created_at, updated_at, version
		FROM   orders
		WHERE  id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %s: %w", id, err)
	}
	return order, nil
}

// UpdateStatus reads the current status and version, validates the
// transition, then writes with a version guard. Zero rows affected means a
// concurrent writer got there first.
func (r *Repository) UpdateStatus(ctx context.Context, id string, next domain.Status) (*domain.Order, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status == next {
		return current, nil
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, &domain.TransitionError{
			OrderID: id,
			From:    current.Status,
			To:      next,
			Version: current.Version,
		}
	}

	const q = `
		UPDATE orders
		SET    status = ?, updated_at = ?, version = version + 1
		WHERE  id = ? AND version = ?`

	res, err := r.db.ExecContext(ctx, q, string(next), formatTime(time.Now().UTC()), id, current.Version)
	if err != nil {
		return nil, fmt.Errorf("sqlite: update status of order %s: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: rows affected for order %s: %w", id, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("order %s: %w", id, store.ErrVersionConflict)
	}

	return r.Get(ctx, id)
}

func (r *Repository) ListStalePending(ctx context.Context, olderThan time.Time) ([]*domain.Order, error) {
	const q = `
		SELECT id, customer, products, address, payment, status, created_at, updated_at, version
		FROM   orders
		WHERE  status = ? AND updated_at < ?
		ORDER  BY updated_at`

	rows, err := r.db.QueryContext(ctx, q, string(domain.StatusPending), formatTime(olderThan.UTC()))
	if err != nil {
		return nil, fmt.Errorf("sqlite: list stale pending orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan stale order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		id                   string
		version              int64
		customerJSON         string
		productsJSON         string
		addressJSON          string
		paymentJSON          string
		status               string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&id,
		&customerJSON,
		&productsJSON,
		&addressJSON,
		&paymentJSON,
		&status,
		&createdAt,
		&updatedAt,
		&version,
	)
	if err != nil {
		return nil, err
	}

	out := &domain.Order{
		ID:      id,
		Status:  domain.Status(status),
		Version: version,
	}
	if err := json.Unmarshal([]byte(customerJSON), &out.Customer); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}
	if err := json.Unmarshal([]byte(productsJSON), &out.Products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if err := json.Unmarshal([]byte(addressJSON), &out.DeliveryAddress); err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	if err := json.Unmarshal([]byte(paymentJSON), &out.Payment); err != nil {
		return nil, fmt.Errorf("decode payment: %w", err)
	}
	if out.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if out.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return out, nil
}

// timeLayout keeps the fractional second fixed-width. RFC3339Nano trims
// trailing zeros, which makes lexicographic comparison of the TEXT column
// disagree with chronological order in the ListStalePending query.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
