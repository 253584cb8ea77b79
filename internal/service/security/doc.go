// Package security implements the alarm state machine of the controller.
//
// Service receives sensor activation changes, arming changes and camera
// images, decides the resulting alarm status, writes it back to the
// repository and notifies registered status listeners.
package security
