// Package middlewares holds gateway-specific chi middleware.
package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"google.golang.org/grpc/metadata"

	"github.com/shopd/order-saga/internal/pkg/interceptors"
)

// AttachRequestMetadata copies the chi request id into the context and the
// outgoing gRPC metadata so backend logs can be correlated with this HTTP
// request.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		ctx := interceptors.WithRequestID(r.Context(), requestID)
		ctx = metadata.AppendToOutgoingContext(ctx, interceptors.HeaderXRequestID, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
