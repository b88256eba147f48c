// Package config reads build settings from environment variables,
// applying defaults where unset. Command-line flags override these.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all builder settings.
type Config struct {
	// InputPath is where the decompressed CIFP file is expected. The
	// download/extract stages are a separate tool; this one only needs
	// the final path.
	InputPath string

	// DBPath is the SQLite artifact path.
	DBPath string

	// PostgresDSN selects the PostgreSQL backend when set.
	PostgresDSN string

	// BatchSize is the number of statements per bulk-load transaction.
	BatchSize int

	// AiracCycle overrides the cycle read from the source records.
	AiracCycle string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	batchSize := 10000
	if v := os.Getenv("CIFP_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid CIFP_BATCH_SIZE %q", v)
		}
		batchSize = n
	}

	return &Config{
		InputPath:   envOrDefault("CIFP_INPUT", "FAACIFP18"),
		DBPath:      envOrDefault("CIFP_DB", "navdata.sqlite"),
		PostgresDSN: os.Getenv("CIFP_POSTGRES_DSN"),
		BatchSize:   batchSize,
		AiracCycle:  os.Getenv("CIFP_AIRAC_CYCLE"),
		LogLevel:    envOrDefault("CIFP_LOG_LEVEL", "info"),
	}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
