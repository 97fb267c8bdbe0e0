// Package logger builds the process-wide zap logger.  Handlers keep their
// JSON error bodies; zap is for operational logging (audit write failures,
// upstream catalog errors, queue reconnects).
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger for the given environment.  In dev
// the console encoder with colored levels is used instead.  The returned
// logger is injected into components; there is no package-level global.
func New(env string) (*zap.Logger, error) {
	if env == "dev" || env == "test" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
