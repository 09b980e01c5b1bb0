// Package logging builds the structured loggers handed to scraper components.
// Components never reach for a global; they receive a *zap.SugaredLogger and
// fall back to Nop when none is given.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for consistent structured logging.
const (
	FieldComponent  = "component"
	FieldRunID      = "run_id"
	FieldSite       = "site"
	FieldTier       = "tier"
	FieldMethod     = "method"
	FieldState      = "state"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldStatusCode = "status_code"
	FieldAttempt    = "attempt"
	FieldCount      = "count"
	FieldSelector   = "selector"
	FieldFilter     = "filter"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)

// Verbosity levels for the -v flag count.
const (
	VerbosityQuiet = 0 // warnings and errors
	VerbosityInfo  = 1 // + tier transitions and counts
	VerbosityDebug = 2 // + selectors, retries, per-card detail
)

// VerbosityToLevel maps a -v count to a zap level.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityQuiet:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New builds a logger writing to stderr. JSON output is meant for machines,
// console output for people at a terminal.
func New(verbosity int, jsonOutput bool) *zap.SugaredLogger {
	return NewWithWriter(os.Stderr, verbosity, jsonOutput)
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(w io.Writer, verbosity int, jsonOutput bool) *zap.SugaredLogger {
	var enc zapcore.Encoder
	if jsonOutput {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), VerbosityToLevel(verbosity))
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return Nop()
	}
	return l
}

// Component returns a child logger tagged with a component name.
func Component(l *zap.SugaredLogger, name string) *zap.SugaredLogger {
	return OrNop(l).Named(name).With(FieldComponent, name)
}
