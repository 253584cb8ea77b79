// Package server runs the catpoint-server process.
//
// It loads settings, opens the configured repository, builds the security
// service with its listeners and serves the gRPC API and, optionally, the
// HTTP status API until the context is canceled.
package server
