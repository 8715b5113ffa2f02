// Package config provides configuration loading and path resolution for the ridership
// pipeline. Components receive a *Paths value rather than reading package-level constants.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A .env file in the working directory
//	3. config.yaml or configs/config.yaml
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern RIDERSHIP_<SECTION>_<KEY>:
//
//	RIDERSHIP_PATHS_RAW_DIR=data/raw
//	RIDERSHIP_PATHS_PROCESSED_FILE=ridership_cleaned.csv
//	RIDERSHIP_LOGGING_LEVEL=debug
//	RIDERSHIP_TRANSFORM_PER_DAY_PRECISION=2
//	RIDERSHIP_TRACING_EXPORTER=stdout
//
// # Directory Layout
//
// Relative directories resolve against the working directory unless paths.base_dir is set:
//
//	data/
//	  raw/         input CSV files, also the scraper's output
//	  processed/   cleaned CSV written by the pipeline
//	logs/          log file and Prometheus textfile
//
// Paths.EnsureDirectories creates raw/ and processed/ and may be called any number of times.
//
// # Validation
//
// Load validates every section with go-playground/validator tags and returns an
// errors.AppError of type CONFIG on failure.
package config
