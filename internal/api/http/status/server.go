package status

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oshokin/catpoint/internal/logger"
)

// readHeaderTimeout bounds how long a client may take to send headers.
const readHeaderTimeout = 5 * time.Second

// Serve runs the HTTP API on the listener until ctx is canceled.
// It returns only after the server has shut down, also when serving fails.
func Serve(ctx context.Context, listener net.Listener, handler *Handler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := &http.Server{
		Handler:           handler.Router(ctx),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), readHeaderTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "HTTP server shutdown failed", "error", err)
			return
		}

		logger.DebugKV(ctx, "Status API stopped")
	}()

	logger.InfoKV(ctx, "Status API listening", "listen_address", listener.Addr().String())

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-done

		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done

	return nil
}
