// Package logging provides structured logging for logparser.
//
// This package wraps Go's log/slog to write JSON-formatted logs to a file in
// the configured log directory. The terminal UI owns stdout, so diagnostics
// such as scan timings and reload events go to the log file instead.
//
// # Basic Usage
//
//	logger, err := logging.NewLoggerWithRotation(dir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("file loaded", "lines", store.Len())
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	scanLog := logger.WithComponent("scan").WithFile(path)
//	scanLog.WithGeneration(gen).Debug("scan finished", "matches", n)
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"scan finished","component":"scan","file":"/var/log/app.log","generation":3,"matches":12}
//
// # Log Rotation
//
// [RotatingWriter] caps the file at RotationConfig.MaxSizeMB. Rotated files
// are named debug.log.1, debug.log.2, etc., where .1 is the most recent
// backup; with Compress set they become debug.log.1.gz, etc.
//
// # Testing
//
// Use [NopLogger] to discard all output. A nil *Logger also discards.
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: info
//	  max_size_mb: 10
//	  max_backups: 3
package logging
