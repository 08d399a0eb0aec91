// Package catalogv1 is the wire contract of the catalog service.
package catalogv1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/shopd/order-saga/internal/rpc"
)

const ServiceName = "catalog.v1.CatalogService"

type GetProductsInfoRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// ProductInfo carries the catalog record for one product.
// Price is in minor currency units (cents).
type ProductInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type GetProductsInfoResponse struct {
	Products []ProductInfo `json:"products"`
}

type CatalogServer interface {
	GetProductsInfo(ctx context.Context, req *GetProductsInfoRequest) (*GetProductsInfoResponse, error)
}

type UnimplementedCatalogServer struct{}

func (UnimplementedCatalogServer) GetProductsInfo(context.Context, *GetProductsInfoRequest) (*GetProductsInfoResponse, error) {
	return nil, rpc.ErrUnimplemented(ServiceName, "GetProductsInfo")
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProductsInfo", Handler: getProductsInfoHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func getProductsInfoHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetProductsInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetProductsInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetProductsInfo"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).GetProductsInfo(ctx, req.(*GetProductsInfoRequest))
	})
}

type CatalogClient interface {
	GetProductsInfo(ctx context.Context, req *GetProductsInfoRequest, opts ...grpc.CallOption) (*GetProductsInfoResponse, error)
}

type catalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) CatalogClient {
	return &catalogClient{cc: cc}
}

func (c *catalogClient) GetProductsInfo(ctx context.Context, req *GetProductsInfoRequest, opts ...grpc.CallOption) (*GetProductsInfoResponse, error) {
	out := new(GetProductsInfoResponse)
	opts = append([]grpc.CallOption{rpc.CallOption}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetProductsInfo", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
