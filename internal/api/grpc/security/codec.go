package security

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName is the gRPC content subtype: messages travel as application/grpc+json.
const codecName = "json"

// jsonCodec marshals gRPC messages with encoding/json.
type jsonCodec struct{}

//nolint:gochecknoinits // Codecs must be registered before any connection is made.
func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// Marshal encodes a message.
func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	return data, nil
}

// Unmarshal decodes a message.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}

	return nil
}

// Name returns the content subtype.
func (jsonCodec) Name() string {
	return codecName
}
