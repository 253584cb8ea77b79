// Package imaging defines the camera image classifier contract used by the
// security service, a fake classifier standing in for a real vision model,
// and helpers to decode camera images.
package imaging
