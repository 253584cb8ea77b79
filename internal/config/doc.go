// Package config defines the settings shared by the catpoint binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Values from the YAML file can be overridden by CATPOINT_* environment
// variables, which may themselves come from an optional .env file.
package config
