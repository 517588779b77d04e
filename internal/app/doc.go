// Package app wires the population query server together.
//
// NewApplication loads the dataset once, builds the services on top of it and
// mounts the chi router with the middleware stack:
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer → SecurityHeaders → RateLimiter
//
// The loaded processor is never modified afterwards, so handlers read it
// concurrently without locking.
//
// Run serves until its context is cancelled and then shuts the server down
// gracefully, flushing the OpenTelemetry providers. Errors are returned to
// the caller; the package never calls os.Exit.
package app
