package config

import "time"

// Application constants
const (
	AppName    = "statepop"
	AppVersion = "1.0.0"

	// Environment variable prefix, e.g. STATEPOP_DENSIFY_START_YEAR
	EnvPrefix = "STATEPOP"

	// Densify defaults
	DefaultInputFile  = "1_wikidata_query_results.csv"
	DefaultOutputFile = "2_wikidata_processed_results.csv"
	DefaultStartYear  = 1600
	DefaultEndYear    = 2018

	// Query server defaults
	DefaultPort            = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimit       = 100 // requests per second
	DefaultBurstSize       = 50

	// File paths (relative to executable)
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/statepop.log"
	DefaultConfigFile = "config.yaml"
)

// DefaultColumns are the input column names for state, year and population
func DefaultColumns() []string {
	return []string{"stateLabel", "year", "population"}
}
