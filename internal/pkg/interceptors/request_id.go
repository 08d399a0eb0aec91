// Package interceptors carries the gRPC unary interceptors shared by all
// services: request-id propagation on both sides of a call.
package interceptors

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// HeaderXRequestID is the metadata key carrying the request id across hops.
const HeaderXRequestID = "x-request-id"

// ctxKey is unexported so context values set here cannot collide with keys
// from other packages.
type ctxKey string

const requestIDKey ctxKey = HeaderXRequestID

// UnaryServerInterceptor extracts the request id from incoming metadata
// (minting one when absent) and stores it in the context for handlers.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(HeaderXRequestID); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx = context.WithValue(ctx, requestIDKey, requestID)
		slog.InfoContext(ctx, "rpc", "method", info.FullMethod, "request_id", requestID)

		return handler(ctx, req)
	}
}

// UnaryClientInterceptor copies the request id from the context into outgoing
// metadata so the next hop can correlate its logs with ours.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if id := RequestID(ctx); id != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, HeaderXRequestID, id)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// RequestID returns the request id carried by ctx, or "" when none is set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(HeaderXRequestID); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}

// WithRequestID stores an externally supplied request id (e.g. from the HTTP
// gateway middleware) in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}
