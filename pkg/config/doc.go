// Package config loads the run configuration for dotsetup.
// It layers embedded defaults, TOML files, a repository .env file,
// environment variables and command-line flags with koanf.
package config
