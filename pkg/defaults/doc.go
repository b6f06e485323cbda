// Package defaults provides centralized configuration constants for
// sentilo-samples.
//
// # Timeout Categories
//
//   - Server timeouts: For HTTP server configuration
//   - Platform timeouts: For outbound requests to the Sentilo REST API
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.PlatformRequestTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Platform calls: 15s per request, one sample makes at most three
//   - Server writes: 60s so a full sample fits in one response
//   - Server shutdown: 30s for graceful shutdown
package defaults
