// Package status exposes a read-only HTTP view of the controller state
// for dashboards and health checks.
package status
