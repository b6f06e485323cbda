// Package cli implements the command-line interface for sentilo-samples.
//
// # Commands
//
// serve - Run the samples controller as an HTTP service:
//
//	sentilo-samples serve --config samples.properties [--port 8080] [--host URL]
//
// Every GET on / or /home runs one sample invocation against the platform and
// renders the outcome as an HTML page. Append ?format=json or ?format=yaml, or
// send a matching Accept header, for machine-readable output.
//
// run - Execute a single invocation and print the outcome:
//
//	sentilo-samples run --config samples.properties [--format json|yaml|table] [--output FILE]
//
// The command exits non-zero when the platform rejected the sensor
// registration or the observation.
//
// # Configuration
//
// The properties file accepts key=value lines or a flat YAML map. Any key can
// be overridden from the environment using the SENTILO_ prefix, e.g.
// SENTILO_REST_CLIENT_IDENTITYKEY overrides rest.client.identityKey.
//
// # Global Flags
//
//	--debug     Enable debug logging
//	--log-json  Emit structured JSON logs
package cli
