// Package logging provides the structured logger used across HackNebula,
// backed by zap.  Services depend on the Logger interface rather than zap
// directly so tests can swap in a no-op or capturing implementation.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a typed key/value pair attached to a log entry.
type Field = zap.Field

// Field constructors re-exported so callers never import zap.
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Float64  = zap.Float64
	Bool     = zap.Bool
	Err      = zap.Error
	Duration = zap.Duration
	Time     = zap.Time
	Any      = zap.Any
	Strings  = zap.Strings
)

// Logger is the logging contract used by every layer of the service.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// With returns a child logger that attaches fields to every entry.
	With(fields ...Field) Logger

	// Sync flushes buffered entries; call it on shutdown.
	Sync() error
}

// Options configures a new logger.
type Options struct {
	// Level is one of debug, info, warn, error.  Unknown values fall
	// back to info.
	Level string
	// Format is "json" for production or "console" for development.
	Format string
	// OutputPath is a file path or "stdout"/"stderr".
	OutputPath string
}

type zapLogger struct {
	l *zap.Logger
}

// New builds a zap-backed Logger from options.
func New(opts Options) (Logger, error) {
	level := zapcore.InfoLevel
	switch opts.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if opts.Format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer
	switch opts.OutputPath {
	case "", "stdout":
		sink = zapcore.AddSync(os.Stdout)
	case "stderr":
		sink = zapcore.AddSync(os.Stderr)
	default:
		f, err := os.OpenFile(opts.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		sink = zapcore.AddSync(f)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return &zapLogger{l: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}, nil
}

// MustNew is New for main functions, panicking on failure.
func MustNew(opts Options) Logger {
	l, err := New(opts)
	if err != nil {
		panic(err)
	}
	return l
}

func (z *zapLogger) Debug(msg string, fields ...Field) { z.l.Debug(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...Field)  { z.l.Info(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...Field)  { z.l.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, fields...) }
func (z *zapLogger) Fatal(msg string, fields ...Field) { z.l.Fatal(msg, fields...) }

func (z *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{l: z.l.With(fields...)}
}

func (z *zapLogger) Sync() error { return z.l.Sync() }

// nopLogger discards everything.  Useful as a default in constructors and
// in tests that do not assert on log output.
type nopLogger struct{}

// NewNop returns a Logger that discards all entries.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (nopLogger) Fatal(string, ...Field) {}

func (n nopLogger) With(...Field) Logger { return n }
func (nopLogger) Sync() error            { return nil }
