package server

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/time/rate"

	"github.com/sentilo/sentilo-samples/pkg/defaults"
)

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{
		Address:         "",
		Port:            defaults.ServerPort,
		RateLimit:       defaults.ServerRateLimit,
		RateLimitBurst:  defaults.ServerRateLimitBurst,
		ReadTimeout:     defaults.ServerReadTimeout,
		WriteTimeout:    defaults.ServerWriteTimeout,
		IdleTimeout:     defaults.ServerIdleTimeout,
		ShutdownTimeout: defaults.ServerShutdownTimeout,
		LogLevel:        slog.LevelInfo.String(),
	}

	// Override with environment variables if set
	if portStr := os.Getenv("PORT"); portStr != "" {
		var port int
		if _, err := fmt.Sscanf(portStr, "%d", &port); err == nil {
			cfg.Port = port
		}
	}

	if rateStr := os.Getenv("RATE_LIMIT"); rateStr != "" {
		var limit float64
		if _, err := fmt.Sscanf(rateStr, "%g", &limit); err == nil && limit > 0 {
			cfg.RateLimit = rate.Limit(limit)
		}
	}

	if logLevelStr := os.Getenv("LOG_LEVEL"); logLevelStr != "" {
		cfg.LogLevel = logLevelStr
	}

	return cfg
}

// ListenAddress returns the host:port the server listens on.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}
