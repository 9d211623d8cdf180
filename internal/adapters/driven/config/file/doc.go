// Package file provides file-based configuration for the justgo binary.
//
// ConfigStore reads and writes ~/.justgo/config.toml. LoadSettings turns
// the stored keys, overlaid with JUSTGO_* environment variables and an
// optional .env file, into typed client, cache and storage settings.
package file
