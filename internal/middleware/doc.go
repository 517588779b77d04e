// Package middleware holds the chi middleware stack of the query server:
// request IDs, structured request logging, panic recovery, rate limiting,
// security headers and OpenTelemetry instrumentation. Failures are answered
// with RFC 7807 problem responses.
package middleware
