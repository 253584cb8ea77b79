//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	grpcapi "github.com/oshokin/catpoint/internal/api/grpc/security"
)

// Actor identifies the person and machine issuing commands.
type Actor struct {
	Username string
	Hostname string
}

// String formats the actor as username@hostname.
func (a Actor) String() string {
	return a.Username + "@" + a.Hostname
}

// DetectActor gathers host and user information for audit trail.
func DetectActor() (Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Actor{}, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return Actor{}, fmt.Errorf("current user: %w", err)
	}

	return Actor{
		Username: currentUser.Username,
		Hostname: hostname,
	}, nil
}

// actorInterceptor appends the actor to the outgoing metadata of every call.
func actorInterceptor(actor Actor) grpc.UnaryClientInterceptor {
	value := actor.String()

	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx = metadata.AppendToOutgoingContext(ctx, grpcapi.ActorMetadataKey, value)

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
