// Package app implements the payment service: a test processor that
// approves or declines charges and notifies the notification service after
// a successful capture.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/shopd/order-saga/internal/rpc/notificationv1"
	"github.com/shopd/order-saga/internal/rpc/paymentv1"
)

// DeclineMethod is the magic payment method that always declines, for
// exercising the failure path end to end.
const DeclineMethod = "declined-card"

type capture struct {
	paymentID string
	amount    int64
	status    string
}

type Server struct {
	paymentv1.UnimplementedPaymentServer
	mu       sync.Mutex
	captures map[string]capture // keyed by order id

	// declineOver declines any charge above this amount when > 0.
	declineOver int64

	notifications notificationv1.NotificationClient // nil-safe
}

func NewServer(notifications notificationv1.NotificationClient, declineOver int64) *Server {
	return &Server{
		captures:      make(map[string]capture),
		declineOver:   declineOver,
		notifications: notifications,
	}
}

// MakePayment captures the amount for an order. Charges are keyed by order
// id: repeating a request for an already settled order replays the recorded
// outcome instead of charging twice, which is what makes the reconciler's
// re-drive safe.
func (s *Server) MakePayment(ctx context.Context, req *paymentv1.MakePaymentRequest) (*paymentv1.MakePaymentResponse, error) {
	s.mu.Lock()
	if prior, ok := s.captures[req.OrderID]; ok {
		s.mu.Unlock()
		slog.InfoContext(ctx, "replaying settled charge", "order_id", req.OrderID, "status", prior.status)
		return &paymentv1.MakePaymentResponse{PaymentID: prior.paymentID, PaymentStatus: prior.status}, nil
	}

	result := capture{
		paymentID: uuid.NewString(),
		amount:    req.Amount,
		status:    paymentv1.StatusApproved,
	}
	if req.Method == DeclineMethod || (s.declineOver > 0 && req.Amount > s.declineOver) {
		result.status = paymentv1.StatusDeclined
	}
	s.captures[req.OrderID] = result
	s.mu.Unlock()

	slog.InfoContext(ctx, "charge processed",
		"order_id", req.OrderID, "amount", req.Amount, "status", result.status)

	if result.status == paymentv1.StatusApproved {
		s.notifyAsync(ctx, req.OrderID, req.UserEmail)
	}

	return &paymentv1.MakePaymentResponse{PaymentID: result.paymentID, PaymentStatus: result.status}, nil
}

// notifyAsync tells the notification service about the successful payment
// without holding up the charge response. The context is detached so the
// notification is not cancelled when this RPC returns.
func (s *Server) notifyAsync(ctx context.Context, orderID, email string) {
	if s.notifications == nil {
		return
	}
	go func(ctx context.Context) {
		_, err := s.notifications.SendPaymentNotification(ctx, &notificationv1.SendPaymentNotificationRequest{
			To:      email,
			OrderID: orderID,
		})
		if err != nil {
			slog.ErrorContext(ctx, "payment notification failed", "order_id", orderID, "error", err)
		}
	}(context.WithoutCancel(ctx))
}
