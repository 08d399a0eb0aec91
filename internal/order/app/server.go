// Package app adapts the order core to its gRPC surface: the OrderService
// server and the outbound client adapters for the collaborator ports.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shopd/order-saga/internal/order/domain"
	"github.com/shopd/order-saga/internal/order/saga"
	"github.com/shopd/order-saga/internal/order/store"
	"github.com/shopd/order-saga/internal/rpc/orderv1"
)

type Server struct {
	orderv1.UnimplementedOrderServer
	saga *saga.Saga
}

func NewServer(s *saga.Saga) *Server {
	return &Server{saga: s}
}

func (s *Server) CreateOrder(ctx context.Context, req *orderv1.CreateOrderRequest) (*orderv1.CreateOrderResponse, error) {
	if req.UserID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id is required")
	}

	order, err := s.saga.CreateOrder(ctx, saga.CreateOrderRequest{
		UserID:     req.UserID,
		ProductIDs: req.ProductIDs,
		Address: domain.Address{
			Street:     req.Address.Street,
			City:       req.Address.City,
			PostalCode: req.Address.PostalCode,
			Country:    req.Address.Country,
		},
		Payment: domain.Payment{
			Method: req.Payment.Method,
			Amount: req.Payment.Amount,
		},
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &orderv1.CreateOrderResponse{Order: toOrderInfo(order)}, nil
}

func (s *Server) GetOrder(ctx context.Context, req *orderv1.GetOrderRequest) (*orderv1.GetOrderResponse, error) {
	order, err := s.saga.GetOrder(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &orderv1.GetOrderResponse{Order: toOrderInfo(order)}, nil
}

func (s *Server) DeliveryStarted(ctx context.Context, req *orderv1.DeliveryStartedRequest) (*orderv1.DeliveryStartedResponse, error) {
	if err := s.saga.DeliveryStarted(ctx, req.OrderID); err != nil {
		slog.WarnContext(ctx, "delivery-started event refused", "order_id", req.OrderID, "error", err)
		return nil, toStatus(err)
	}
	return &orderv1.DeliveryStartedResponse{}, nil
}

// toStatus maps the domain error taxonomy onto gRPC codes: validation
// failures to InvalidArgument, missing records to NotFound, business
// declines and refused transitions to FailedPrecondition, transport
// failures to Unavailable.
func toStatus(err error) error {
	var (
		mismatch    *domain.AmountMismatchError
		notFound    *domain.ProductsNotFoundError
		declined    *domain.DeclinedError
		transition  *domain.TransitionError
		unavailable *domain.UnavailableError
	)
	switch {
	case errors.Is(err, domain.ErrNoProducts),
		errors.As(err, &mismatch),
		errors.As(err, &notFound):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &declined),
		errors.As(err, &transition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, store.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.As(err, &unavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toOrderInfo(order *domain.Order) *orderv1.OrderInfo {
	products := make([]orderv1.ProductSnapshot, len(order.Products))
	for i, p := range order.Products {
		products[i] = orderv1.ProductSnapshot{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
		}
	}
	return &orderv1.OrderInfo{
		ID: order.ID,
		Customer: orderv1.Customer{
			UserID: order.Customer.UserID,
			Email:  order.Customer.Email,
			Name:   order.Customer.Name,
		},
		Products: products,
		DeliveryAddress: orderv1.Address{
			Street:     order.DeliveryAddress.Street,
			City:       order.DeliveryAddress.City,
			PostalCode: order.DeliveryAddress.PostalCode,
			Country:    order.DeliveryAddress.Country,
		},
		Payment: orderv1.Payment{
			Method: order.Payment.Method,
			Amount: order.Payment.Amount,
		},
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: order.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Version:   order.Version,
	}
}
