// Package ports declares the capabilities the gateway needs from the
// backend, keeping handlers independent of the transport.
package ports

import (
	"context"

	"github.com/shopd/order-saga/internal/gateway/core/domain/entity"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req entity.CreateOrder) (*entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
}
