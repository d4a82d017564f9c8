// Package config loads, normalizes, and validates voxtract configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the VOXTRACT_ENGINE_COMMAND
// environment override. Always obtain settings through this package so
// downstream code receives absolute paths, canonical family keys and clear
// validation errors.
package config
