// Package orderv1 is the wire contract of the order service: order creation,
// point reads and the inbound delivery-started event.
package orderv1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/shopd/order-saga/internal/rpc"
)

const ServiceName = "order.v1.OrderService"

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Payment struct {
	Method string `json:"method"`
	Amount int64  `json:"amount"` // minor currency units
}

type Customer struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type ProductSnapshot struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

type OrderInfo struct {
	ID              string            `json:"id"`
	Customer        Customer          `json:"customer"`
	Products        []ProductSnapshot `json:"products"`
	DeliveryAddress Address           `json:"delivery_address"`
	Payment         Payment           `json:"payment"`
	Status          string            `json:"status"`
	CreatedAt       string            `json:"created_at"` // RFC3339
	UpdatedAt       string            `json:"updated_at"` // RFC3339
	Version         int64             `json:"version"`
}

type CreateOrderRequest struct {
	UserID     string   `json:"user_id"`
	ProductIDs []string `json:"product_ids"`
	Address    Address  `json:"address"`
	Payment    Payment  `json:"payment"`
}

type CreateOrderResponse struct {
	Order *OrderInfo `json:"order"`
}

type GetOrderRequest struct {
	ID string `json:"id"`
}

type GetOrderResponse struct {
	Order *OrderInfo `json:"order"`
}

type DeliveryStartedRequest struct {
	OrderID string `json:"order_id"`
}

// DeliveryStartedResponse is an empty ack; the sender does not act on it.
type DeliveryStartedResponse struct{}

type OrderServer interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)
	GetOrder(ctx context.Context, req *GetOrderRequest) (*GetOrderResponse, error)
	DeliveryStarted(ctx context.Context, req *DeliveryStartedRequest) (*DeliveryStartedResponse, error)
}

type UnimplementedOrderServer struct{}

func (UnimplementedOrderServer) CreateOrder(context.Context, *CreateOrderRequest) (*CreateOrderResponse, error) {
	return nil, rpc.ErrUnimplemented(ServiceName, "CreateOrder")
}

func (UnimplementedOrderServer) GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error) {
	return nil, rpc.ErrUnimplemented(ServiceName, "GetOrder")
}

func (UnimplementedOrderServer) DeliveryStarted(context.Context, *DeliveryStartedRequest) (*DeliveryStartedResponse, error) {
	return nil, rpc.ErrUnimplemented(ServiceName, "DeliveryStarted")
}

func RegisterOrderServer(s grpc.ServiceRegistrar, srv OrderServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateOrder", Handler: createOrderHandler},
		{MethodName: "GetOrder", Handler: getOrderHandler},
		{MethodName: "DeliveryStarted", Handler: deliveryStartedHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func createOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServer).CreateOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CreateOrder"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServer).CreateOrder(ctx, req.(*CreateOrderRequest))
	})
}

func getOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServer).GetOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetOrder"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServer).GetOrder(ctx, req.(*GetOrderRequest))
	})
}

func deliveryStartedHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeliveryStartedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServer).DeliveryStarted(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/DeliveryStarted"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServer).DeliveryStarted(ctx, req.(*DeliveryStartedRequest))
	})
}

type OrderClient interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest, opts ...grpc.CallOption) (*CreateOrderResponse, error)
	GetOrder(ctx context.Context, req *GetOrderRequest, opts ...grpc.CallOption) (*GetOrderResponse, error)
	DeliveryStarted(ctx context.Context, req *DeliveryStartedRequest, opts ...grpc.CallOption) (*DeliveryStartedResponse, error)
}

type orderClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderClient(cc grpc.ClientConnInterface) OrderClient {
	return &orderClient{cc: cc}
}

func (c *orderClient) CreateOrder(ctx context.Context, req *CreateOrderRequest, opts ...grpc.CallOption) (*CreateOrderResponse, error) {
	out := new(CreateOrderResponse)
	opts = append([]grpc.CallOption{rpc.CallOption}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/CreateOrder", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderClient) GetOrder(ctx context.Context, req *GetOrderRequest, opts ...grpc.CallOption) (*GetOrderResponse, error) {
	out := new(GetOrderResponse)
	opts = append([]grpc.CallOption{rpc.CallOption}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetOrder", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderClient) DeliveryStarted(ctx context.Context, req *DeliveryStartedRequest, opts ...grpc.CallOption) (*DeliveryStartedResponse, error) {
	out := new(DeliveryStartedResponse)
	opts = append([]grpc.CallOption{rpc.CallOption}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/DeliveryStarted", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
