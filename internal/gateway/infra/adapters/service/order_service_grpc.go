// Package service adapts the order-service gRPC client to the gateway port.
package service

import (
	"context"
	"fmt"

	"github.com/shopd/order-saga/internal/gateway/core/domain/entity"
	"github.com/shopd/order-saga/internal/gateway/core/ports"
	"github.com/shopd/order-saga/internal/rpc/orderv1"
)

type grpcOrderService struct {
	client orderv1.OrderClient
}

var _ ports.OrderService = (*grpcOrderService)(nil)

func NewGRPCOrderService(client orderv1.OrderClient) ports.OrderService {
	return &grpcOrderService{client: client}
}

func (s *grpcOrderService) CreateOrder(ctx context.Context, userID string, req entity.CreateOrder) (*entity.Order, error) {
	resp, err := s.client.CreateOrder(ctx, &orderv1.CreateOrderRequest{
		UserID:     userID,
		ProductIDs: req.ProductIDs,
		Address: orderv1.Address{
			Street:     req.Address.Street,
			City:       req.Address.City,
			PostalCode: req.Address.PostalCode,
			Country:    req.Address.Country,
		},
		Payment: orderv1.Payment{
			Method: req.Payment.Method,
			Amount: req.Payment.Amount,
		},
	})
	if err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, fmt.Errorf("grpc CreateOrder: empty order in response")
	}
	return toEntity(resp.Order), nil
}

func (s *grpcOrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	resp, err := s.client.GetOrder(ctx, &orderv1.GetOrderRequest{ID: id})
	if err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, fmt.Errorf("grpc GetOrder: empty order in response")
	}
	return toEntity(resp.Order), nil
}

func toEntity(o *orderv1.OrderInfo) *entity.Order {
	products := make([]entity.Product, len(o.Products))
	for i, p := range o.Products {
		products[i] = entity.Product{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
		}
	}
	return &entity.Order{
		ID: o.ID,
		Customer: entity.Customer{
			UserID: o.Customer.UserID,
			Email:  o.Customer.Email,
			Name:   o.Customer.Name,
		},
		Products: products,
		Address: entity.Address{
			Street:     o.DeliveryAddress.Street,
			City:       o.DeliveryAddress.City,
			PostalCode: o.DeliveryAddress.PostalCode,
			Country:    o.DeliveryAddress.Country,
		},
		Payment: entity.Payment{
			Method: o.Payment.Method,
			Amount: o.Payment.Amount,
		},
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Version:   o.Version,
	}
}
