package server

import (
	"strings"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps request bodies; merge payloads carry whole sets.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"16"`
	// ReadTimeoutSeconds bounds how long a request may take to arrive.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"10"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

// AuthEnabled reports whether requests must carry the API key.
func (c Config) AuthEnabled() bool {
	return c.ApiKey != ""
}

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 4 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// ReadTimeout returns the read timeout, zero meaning none.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown timeout.
func (c Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
