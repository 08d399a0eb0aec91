// Package app implements the notification service. It records and "sends"
// a payment email, then emits the delivery-started event back into the
// order service. That callback is the asynchronous completion path of the
// order lifecycle: it arrives on its own execution context, decoupled from
// the create-order call stack.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopd/order-saga/internal/rpc/notificationv1"
	"github.com/shopd/order-saga/internal/rpc/orderv1"
)

type NotificationStatus string

const (
	StatusCreated NotificationStatus = "created"
	StatusSent    NotificationStatus = "sent"
)

type Notification struct {
	ID        string
	From      string
	To        string
	Subject   string
	Content   string
	Status    NotificationStatus
	CreatedAt time.Time
}

const senderAddress = "orders@shopd.dev"

type Server struct {
	notificationv1.UnimplementedNotificationServer
	mu            sync.Mutex
	notifications map[string]*Notification

	orders orderv1.OrderClient // nil-safe: no callback when absent

	// sendDelay simulates the email provider round trip.
	sendDelay time.Duration
}

func NewServer(orders orderv1.OrderClient, sendDelay time.Duration) *Server {
	return &Server{
		notifications: make(map[string]*Notification),
		orders:        orders,
		sendDelay:     sendDelay,
	}
}

func (s *Server) SendPaymentNotification(ctx context.Context, req *notificationv1.SendPaymentNotificationRequest) (*notificationv1.SendPaymentNotificationResponse, error) {
	n := &Notification{
		ID:        uuid.NewString(),
		From:      senderAddress,
		To:        req.To,
		Subject:   "Your delivery has started",
		Content:   fmt.Sprintf("Your order %s is on its way.", req.OrderID),
		Status:    StatusCreated,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.notifications[n.ID] = n
	s.mu.Unlock()

	s.sendEmail(ctx)

	s.mu.Lock()
	n.Status = StatusSent
	s.mu.Unlock()

	s.emitDeliveryStarted(ctx, req.OrderID)

	return &notificationv1.SendPaymentNotificationResponse{
		NotificationID: n.ID,
		Status:         string(n.Status),
	}, nil
}

func (s *Server) sendEmail(ctx context.Context) {
	select {
	case <-time.After(s.sendDelay):
	case <-ctx.Done():
	}
}

// emitDeliveryStarted fires the event at the order service without waiting
// for the outcome; the sender expects no response. Failures are logged and
// otherwise dropped: the event source has no error channel.
func (s *Server) emitDeliveryStarted(ctx context.Context, orderID string) {
	if s.orders == nil {
		return
	}
	go func(ctx context.Context) {
		_, err := s.orders.DeliveryStarted(ctx, &orderv1.DeliveryStartedRequest{OrderID: orderID})
		if err != nil {
			slog.ErrorContext(ctx, "delivery-started event rejected", "order_id", orderID, "error", err)
		}
	}(context.WithoutCancel(ctx))
}
