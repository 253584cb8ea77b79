// Package client implements the commands of the catpoint CLI.
//
// Each command connects to the security server, performs one operation and
// prints the resulting state. Commands can keep retrying while the server is
// unreachable.
package client
