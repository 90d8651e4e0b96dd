package config

import "time"

const (
	// DefaultRunnerPath is the runner binary location relative to the workspace
	DefaultRunnerPath = "vendor/bin/phpunit"
	// DefaultGracePeriod is the wait for graceful shutdown before a forced kill
	DefaultGracePeriod = 3 * time.Second
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultDatabaseName is the default test database name
	DefaultDatabaseName = "testing"
	// ConfigFileName is the optional per-workspace configuration file
	ConfigFileName = "pta.yaml"
)
