// Package http implements the HTTP handlers of the population query server.
//
// Handlers are thin: they parse path and query parameters, call a service
// and render the result with go-chi/render. Every failure is converted to an
// RFC 7807 problem response by errors.ErrorHandler.
//
// Routes mounted under /api/v1:
//
//	GET /states                           reference table with known spans
//	GET /states/{code}/population         one state, ?start=&end=
//	GET /states/{code}/observations       known figures of one state
//	GET /population                       every state, ?start=&end=&format=json|csv
package http
