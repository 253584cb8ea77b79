// Package hook runs a user supplied shell command when the alarm is raised,
// for example to sound a siren or send a notification.
package hook
