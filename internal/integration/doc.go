// Package integration holds end-to-end tests that run the densify pipeline
// and the query server against real files.
package integration
