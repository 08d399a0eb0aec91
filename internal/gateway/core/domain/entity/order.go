// Package entity holds the gateway-side view of an order.
package entity

type Customer struct {
	UserID string
	Email  string
	Name   string
}

type Product struct {
	ProductID string
	Name      string
	Price     int64
}

type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

type Payment struct {
	Method string
	Amount int64
}

type CreateOrder struct {
	ProductIDs []string
	Address    Address
	Payment    Payment
}

type Order struct {
	ID        string
	Customer  Customer
	Products  []Product
	Address   Address
	Payment   Payment
	Status    string
	CreatedAt string
	UpdatedAt string
	Version   int64
}
