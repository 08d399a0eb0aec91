// Package paymentv1 is the wire contract of the payment service.
package paymentv1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/shopd/order-saga/internal/rpc"
)

const ServiceName = "payment.v1.PaymentService"

// Payment outcome values reported by the processor.
const (
	StatusApproved = "Approved"
	StatusDeclined = "Declined"
)

type MakePaymentRequest struct {
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"` // minor currency units
	Method    string `json:"method"`
	UserEmail string `json:"user_email"`
}

type MakePaymentResponse struct {
	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"` // Approved | Declined
}

type PaymentServer interface {
	MakePayment(ctx context.Context, req *MakePaymentRequest) (*MakePaymentResponse, error)
}

type UnimplementedPaymentServer struct{}

func (UnimplementedPaymentServer) MakePayment(context.Context, *MakePaymentRequest) (*MakePaymentResponse, error) {
	return nil, rpc.ErrUnimplemented(ServiceName, "MakePayment")
}

func RegisterPaymentServer(s grpc.ServiceRegistrar, srv PaymentServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaymentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "MakePayment", Handler: makePaymentHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func makePaymentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MakePaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentServer).MakePayment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/MakePayment"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(PaymentServer).MakePayment(ctx, req.(*MakePaymentRequest))
	})
}

type PaymentClient interface {
	MakePayment(ctx context.Context, req *MakePaymentRequest, opts ...grpc.CallOption) (*MakePaymentResponse, error)
}

type paymentClient struct {
	cc grpc.ClientConnInterface
}

func NewPaymentClient(cc grpc.ClientConnInterface) PaymentClient {
	return &paymentClient{cc: cc}
}

func (c *paymentClient) MakePayment(ctx context.Context, req *MakePaymentRequest, opts ...grpc.CallOption) (*MakePaymentResponse, error) {
	out := new(MakePaymentResponse)
	opts = append([]grpc.CallOption{rpc.CallOption}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/MakePayment", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
