// Package config loads and validates pacer's TOML configuration.
//
// Configuration lives at ~/.config/pacer/config.toml by default, with a
// project-local pacer.toml taking precedence when present. All duration
// fields are stored as integer seconds in the file and exposed as
// time.Duration accessors.
package config
