package rpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrUnimplemented is returned by the Unimplemented*Server embeds.
func ErrUnimplemented(service, method string) error {
	return status.Errorf(codes.Unimplemented, "method %s of %s is not implemented", method, service)
}
