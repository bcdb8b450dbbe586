// Package observability holds process-wide loggers.
//
// Loggers default to no-ops so packages can log before Init runs (and so
// tests stay quiet). Init replaces them with configured zap loggers.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the logger for command-line operations. Writes to stderr so
// stdout stays clean for JSONL output.
var CLILogger = zap.NewNop()

// ServerLogger is the logger for the HTTP server.
var ServerLogger = zap.NewNop()

// Init configures the package loggers.
//
// level is a zap level name ("debug", "info", "warn", "error"). profile
// selects the encoder: "structured" emits JSON, "console" emits
// human-readable lines.
func Init(level, profile string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	switch profile {
	case "", "structured":
		cfg.Encoding = "json"
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	default:
		return fmt.Errorf("invalid logging profile %q (structured|console)", profile)
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	CLILogger = logger.Named("cli")
	ServerLogger = logger.Named("server")
	return nil
}

// Sync flushes buffered log entries. Safe to call on no-op loggers.
func Sync() {
	_ = CLILogger.Sync()
	_ = ServerLogger.Sync()
}
