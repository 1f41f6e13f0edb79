// Package observability builds the structured logger shared by the solver and the CLI.
package observability

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/wizardsim/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// Logs always go to stderr so that stdout carries only answers.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	// Every bound improvement is worth seeing at debug level.
	zapCfg.Sampling = nil

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// WithRun tags every entry of base with a fresh run_id.
//
// Precondition: base must be non-nil.
// Postcondition: Returns the tagged logger and the id it carries.
func WithRun(base *zap.Logger) (*zap.Logger, uuid.UUID) {
	id := uuid.New()
	return base.With(zap.String("run_id", id.String())), id
}
