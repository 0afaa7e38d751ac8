// Package config loads, normalizes, and validates captionfix configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// CAPTIONFIX_API_TOKEN. Always obtain settings through this package so
// downstream code receives absolute paths and clear validation errors.
package config
