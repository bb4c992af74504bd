// Package config loads the tagwatchd configuration from YAML.
//
// Defaults are embedded in the binary and a user file is layered on top, so
// a config file only needs the keys it changes.
package config
