package security

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oshokin/catpoint/internal/logger"
)

// ActorMetadataKey carries the "user@host" identity of the calling client.
const ActorMetadataKey = "x-catpoint-actor"

// UnaryServerInterceptor attaches the base context logger to each call,
// logs the outcome and turns handler panics into Internal errors.
func UnaryServerInterceptor(base context.Context) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp any, err error) {
		ctx = logger.ToContext(ctx, logger.FromContext(base))
		ctx = logger.WithKV(ctx, "method", info.FullMethod)

		if actor := actorFromContext(ctx); actor != "" {
			ctx = logger.WithKV(ctx, "actor", actor)
		}

		started := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				logger.ErrorKV(ctx, "Panic in unary handler", "panic", recovered)

				resp = nil
				err = status.Error(codes.Internal, "internal server error")
			}

			code := status.Code(err)
			if code == codes.OK {
				logger.DebugKV(ctx, "Call handled", "duration", time.Since(started))
			} else {
				logger.WarnKV(ctx, "Call failed", "code", code.String(), "duration", time.Since(started))
			}
		}()

		return handler(ctx, req)
	}
}

// actorFromContext returns the caller identity sent in the request metadata.
func actorFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	values := md.Get(ActorMetadataKey)
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
