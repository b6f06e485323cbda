package defaults

import "time"

// Server timeouts.
const (
	ServerReadTimeout     = 10 * time.Second
	ServerWriteTimeout    = 60 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Server rate limiting.
const (
	ServerRateLimit      = 100
	ServerRateLimitBurst = 200
)

// ServerPort is the listen port when neither --port nor PORT is set.
const ServerPort = 8080

// PlatformRequestTimeout bounds a single request to the platform API.
const PlatformRequestTimeout = 15 * time.Second

// PlatformHost is the platform API endpoint of a local Sentilo install.
const PlatformHost = "http://127.0.0.1:8081"
