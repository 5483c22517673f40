package cmd

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/logparser/internal/config"
	"github.com/Iron-Ham/logparser/internal/logging"
)

// CreateLogger creates a logger writing to debug.log in the configured log
// directory. A logger that cannot be created is replaced by a no-op one.
func CreateLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}

	rotationConfig := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	}

	logger, err := logging.NewLoggerWithRotation(cfg.Paths.ResolveLogDir(), cfg.Logging.Level, rotationConfig)
	if err != nil {
		// Log creation failure shouldn't prevent the application from starting
		fmt.Fprintf(os.Stderr, "Warning: failed to create logger: %v\n", err)
		return logging.NopLogger()
	}

	return logger
}
