// Package config holds the client settings: defaults, an optional JSON
// file, then command-line flags and environment variables.
package config
