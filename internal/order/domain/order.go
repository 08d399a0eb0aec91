// Package domain holds the Order aggregate and the error taxonomy of the
// order core.
package domain

import "time"

// Customer is the identity snapshot captured when the order is placed.
// Later changes to the user record do not affect past orders.
type Customer struct {
	UserID string
	Email  string
	Name   string
}

// ProductSnapshot is the catalog record copied into the order at creation
// time. Price is in minor currency units (cents) so totals never suffer
// rounding drift.
type ProductSnapshot struct {
	ProductID string
	Name      string
	Price     int64
}

// Address is validated upstream and stored as-is.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Payment is the client-declared payment method and amount (minor units).
type Payment struct {
	Method string
	Amount int64
}

// Order is the aggregate root. Customer, Products, DeliveryAddress and
// Payment are write-once at creation; only Status (and the derived
// UpdatedAt/Version) mutate afterwards.
type Order struct {
	ID              string
	Customer        Customer
	Products        []ProductSnapshot
	DeliveryAddress Address
	Payment         Payment
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
}

// Total sums the snapshot prices.
func (o *Order) Total() int64 {
	var total int64
	for _, p := range o.Products {
		total += p.Price
	}
	return total
}

// Clone returns a deep copy so stores can hand out orders without aliasing
// their internal state.
func (o *Order) Clone() *Order {
	cp := *o
	cp.Products = make([]ProductSnapshot, len(o.Products))
	copy(cp.Products, o.Products)
	return &cp
}
