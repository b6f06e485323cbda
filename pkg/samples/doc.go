// Package samples runs the platform client sample.
//
// # Overview
//
// Each execution reads the sample identifiers from configuration, renders the
// current memory statistics as text, makes sure the sample sensor exists in the
// provider catalog (registering it when it does not) and publishes the memory
// text as one observation for that sensor.
//
// The catalog, sensor and provider identifiers must be declared on the
// platform beforehand; at least the application identity token and the
// provider must exist.
//
// # Failure handling
//
// Platform failures never escape Run. The first failing call aborts the
// remaining steps and its message becomes the outcome's error text. Platform
// error payloads are JSON documents, so the text is pretty printed when it
// parses as JSON and shown verbatim, followed by the parse error, otherwise.
//
// # Concurrency
//
// A Runner holds only immutable configuration and its collaborators, so one
// Runner serves concurrent requests. Two concurrent executions may both find
// the sensor missing and both register it; the platform tolerates duplicate
// registrations.
//
// # HTTP
//
// HandleSamples serves "/" and "/home". The outcome is rendered as an HTML
// page by default, or as JSON or YAML when requested with ?format= or the
// Accept header.
package samples
