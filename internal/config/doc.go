// Package config loads, normalizes, and validates ytaudio configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// an optional TOML file, loads a .env file when present, and honours
// environment overrides for tool binaries and log level. The per-run inputs
// (URL, destination, flags) are not configuration; they come from the command
// line and live in pipeline.Options.
package config
