// Package setup writes the catpoint settings file.
//
// It validates the requested settings, saves them and optionally verifies
// that the security server answers before printing the next steps.
package setup
