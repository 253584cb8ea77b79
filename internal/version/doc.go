// Package version exposes build metadata for the catpoint binaries.
//
// Variables Version, Commit and BuildTime are injected at build time via Go
// ldflags. When they are left unset the VCS data recorded by the Go toolchain
// is used instead.
package version
