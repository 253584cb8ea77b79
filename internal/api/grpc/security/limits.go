package security

import (
	"context"

	"google.golang.org/grpc"

	"github.com/oshokin/catpoint/internal/imaging"
)

// envelopeSize leaves room for the JSON framing around the image bytes.
const envelopeSize = 64 << 10

// MaxMessageSize fits an imaging.MaxImageSize image after base64 encoding
// inside a ProcessImageRequest.
const MaxMessageSize = (imaging.MaxImageSize+2)/3*4 + envelopeSize

// NewGRPCServer creates a gRPC server with the security interceptor and
// message limits sized for camera images.
func NewGRPCServer(base context.Context, options ...grpc.ServerOption) *grpc.Server {
	options = append([]grpc.ServerOption{
		grpc.UnaryInterceptor(UnaryServerInterceptor(base)),
		grpc.MaxRecvMsgSize(MaxMessageSize),
	}, options...)

	return grpc.NewServer(options...)
}

// CallOptions are the default call options of security service clients.
func CallOptions() []grpc.CallOption {
	return []grpc.CallOption{
		grpc.MaxCallSendMsgSize(MaxMessageSize),
	}
}
