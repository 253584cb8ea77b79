// Package events publishes controller status changes to NATS so other
// services (dashboards, notifiers, sirens) can react to them.
package events
