// Package config loads statepop configuration.
//
// # Configuration Sources
//
// Sources are applied in this order, each overriding the previous one:
//
//  1. Default values (Default)
//  2. A YAML configuration file
//  3. Environment variables prefixed with STATEPOP_
//  4. Command line flags (applied by the commands)
//
// # Environment Variables
//
//	STATEPOP_DENSIFY_INPUT=raw.csv
//	STATEPOP_DENSIFY_COLUMNS=stateLabel,year,population
//	STATEPOP_DENSIFY_START_YEAR=1790
//	STATEPOP_SERVER_PORT=9090
//	STATEPOP_LOGGING_LEVEL=debug
//
// # Path Management
//
// Relative input, output and log paths are resolved against the directory
// of the running executable through Paths:
//
//	paths, err := config.GetPaths()
//	cfg.ResolveDensify(paths)
package config
