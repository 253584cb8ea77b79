// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client wrapper with timeouts for the security
// service and detects the current system actor (username@hostname) that is
// attached to every call for the server logs.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
