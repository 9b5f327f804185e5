// Package config handles configuration management for alps.
// Values are layered from the embedded defaults, the user's config.toml,
// ALPS_* environment variables and command-line flags, and decoded once into
// a Config that is passed explicitly to every component.
package config
