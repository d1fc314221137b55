// Package config loads, normalizes, and validates boilerstrip configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the BOILERSTRIP_THRESHOLD
// environment fallback. Command-line flags are applied on top of the loaded
// Config by the CLI, so every consumer sees one validated value.
package config
