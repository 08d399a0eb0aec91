// Package identityv1 is the wire contract of the identity service.
package identityv1

import (
	"context"

	"google.golang.org/grpc"

	"github.com/shopd/order-saga/internal/rpc"
)

const ServiceName = "identity.v1.IdentityService"

type GetUserInfoRequest struct {
	UserID string `json:"user_id"`
}

type GetUserInfoResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IdentityServer is the server API for the identity service.
type IdentityServer interface {
	GetUserInfo(ctx context.Context, req *GetUserInfoRequest) (*GetUserInfoResponse, error)
}

// UnimplementedIdentityServer may be embedded for forward compatibility.
type UnimplementedIdentityServer struct{}

func (UnimplementedIdentityServer) GetUserInfo(context.Context, *GetUserInfoRequest) (*GetUserInfoResponse, error) {
	return nil, rpc.ErrUnimplemented(ServiceName, "GetUserInfo")
}

func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetUserInfo", Handler: getUserInfoHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func getUserInfoHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetUserInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServer).GetUserInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetUserInfo"}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServer).GetUserInfo(ctx, req.(*GetUserInfoRequest))
	})
}

// IdentityClient is the client API for the identity service.
type IdentityClient interface {
	GetUserInfo(ctx context.Context, req *GetUserInfoRequest, opts ...grpc.CallOption) (*GetUserInfoResponse, error)
}

type identityClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityClient(cc grpc.ClientConnInterface) IdentityClient {
	return &identityClient{cc: cc}
}

func (c *identityClient) GetUserInfo(ctx context.Context, req *GetUserInfoRequest, opts ...grpc.CallOption) (*GetUserInfoResponse, error) {
	out := new(GetUserInfoResponse)
	opts = append([]grpc.CallOption{rpc.CallOption}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetUserInfo", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
