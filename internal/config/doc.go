// Package config loads, normalizes, and validates aircheck's TOML
// configuration. Path fields are tilde-expanded and made absolute during
// Load, so downstream packages never handle relative or user-relative
// paths.
package config
