// Package services implements the statepop use cases on top of the
// population engine.
//
// PopulationService runs a densify job end to end: it validates the input
// location, reads the raw table, loads it into a population.Processor,
// computes every output record and only then writes the output file. Each
// stage runs in its own OpenTelemetry span and the run is counted in the
// densify metrics.
//
// HealthService reports liveness and dataset statistics for the query server.
package services
