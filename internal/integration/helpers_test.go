package integration

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/catpoint/internal/config"
	"github.com/oshokin/catpoint/internal/service/common"
	"github.com/oshokin/catpoint/internal/service/server"
)

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// writeConfig saves settings for the given addresses and storage.
func writeConfig(t *testing.T, addr, httpAddr string, storage config.Storage) string {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(
		t,
		config.Save(cfgPath, &config.Config{
			ServerAddress: addr,
			HTTPAddress:   httpAddr,
			Timeout:       5 * time.Second,
			LogLevel:      "error",
			Storage:       storage,
		}),
	)

	return cfgPath
}

// startServer runs the real server until the returned stop function is called.
// The listen address is taken from the configuration.
func startServer(t *testing.T, cfgPath string) (stop func()) {
	t.Helper()

	// Create cancellable context for server lifecycle.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Start server in background goroutine.
	go func() {
		done <- server.Run(ctx, &server.Options{ConfigPath: cfgPath})
	}()

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	waitForListener(t, cfg.ServerAddress)

	if cfg.HTTPAddress != "" {
		waitForListener(t, cfg.HTTPAddress)
	}

	return func() {
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	}
}

// waitForListener blocks until the address accepts TCP connections.
func waitForListener(t *testing.T, addr string) {
	t.Helper()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err != nil {
			return false
		}

		_ = conn.Close()

		return true
	}, 5*time.Second, 20*time.Millisecond)
}

// dial connects a client to the server.
func dial(t *testing.T, addr string) *common.Client {
	t.Helper()

	c, err := common.Dial(
		context.Background(),
		addr,
		common.WithCallTimeout(3*time.Second),
		common.WithActor(common.Actor{Username: "test-user", Hostname: "test-host"}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}
