// Package rpc holds the wire contracts between the services.
//
// Messages travel over plain gRPC with a JSON codec instead of protobuf:
// each sub-package (orderv1, paymentv1, ...) declares its request/response
// structs and a hand-written grpc.ServiceDesc in the same shape
// protoc-gen-go-grpc emits, and the codec below handles (de)serialisation.
// Clients must pass rpc.CallOption (or set the json content-subtype
// themselves) so the server selects this codec.
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Name is the content-subtype under which the JSON codec is registered.
// The resulting content-type on the wire is "application/grpc+json".
const Name = "json"

// CallOption selects the JSON codec for an outgoing call.
var CallOption = grpc.CallContentSubtype(Name)

func init() {
	encoding.RegisterCodec(codec{})
}

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal %T: %w", v, err)
	}
	return b, nil
}

func (codec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpc: unmarshal into %T: %w", v, err)
	}
	return nil
}

func (codec) Name() string { return Name }
