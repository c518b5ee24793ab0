package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// CorsOrigins is a comma separated list of allowed CORS origins.
	CorsOrigins string `mapstructure:"cors_origins" default:"*"`
	// BodyLimitMB is the maximum accepted request body size in megabytes.
	// Bulk uploads of a few thousand rows fit comfortably under the default.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"50"`
}

// Origins returns the configured CORS origins as a trimmed list.
func (c Config) Origins() []string {
	parts := strings.Split(c.CorsOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
