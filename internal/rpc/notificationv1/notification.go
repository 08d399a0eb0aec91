// Package notificationv1 is the wire contract of the notification service.
package notificationv1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/shopd/order-saga/internal/rpc"
)

const ServiceName = "notification.v1.NotificationService"

type SendPaymentNotificationRequest struct {
	To      string `json:"to"`
	OrderID string `json:"order_id"`
}

type SendPaymentNotificationResponse struct {
	NotificationID string `json:"notification_id"`
	Status         string `json:"status"`
}

type NotificationServer interface {
	SendPaymentNotification(ctx context.Context, req *SendPaymentNotificationRequest) (*SendPaymentNotificationResponse, error)
}

type UnimplementedNotificationServer struct{}

func (UnimplementedNotificationServer) SendPaymentNotification(context.Context, *SendPaymentNotificationRequest) (*SendPaymentNotificationResponse, error) {
	return nil, rpc.ErrUnimplemented(ServiceName, "SendPaymentNotification")
}

func RegisterNotificationServer(s grpc.ServiceRegistrar, srv NotificationServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NotificationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendPaymentNotification", Handler: sendPaymentNotificationHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func sendPaymentNotificationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SendPaymentNotificationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NotificationServer).SendPaymentNotification(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/SendPaymentNotification"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(NotificationServer).SendPaymentNotification(ctx, req.(*SendPaymentNotificationRequest))
	})
}

type NotificationClient interface {
	SendPaymentNotification(ctx context.Context, req *SendPaymentNotificationRequest, opts ...grpc.CallOption) (*SendPaymentNotificationResponse, error)
}

type notificationClient struct {
	cc grpc.ClientConnInterface
}

func NewNotificationClient(cc grpc.ClientConnInterface) NotificationClient {
	return &notificationClient{cc: cc}
}

func (c *notificationClient) SendPaymentNotification(ctx context.Context, req *SendPaymentNotificationRequest, opts ...grpc.CallOption) (*SendPaymentNotificationResponse, error) {
	out := new(SendPaymentNotificationResponse)
	opts = append([]grpc.CallOption{rpc.CallOption}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/SendPaymentNotification", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
