// Package testutil holds shared test doubles.
package testutil

import (
	"sync"

	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
)

// Entry is one captured log call.
type Entry struct {
	Level   string
	Message string
	Fields  []logging.Field
}

type captureSink struct {
	mu      sync.Mutex
	entries []Entry
}

// CaptureLogger is a logging.Logger that records every call for
// assertions.  Loggers derived with With share the parent's storage.
type CaptureLogger struct {
	sink *captureSink
	with []logging.Field
}

// NewCaptureLogger returns an empty capture logger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{sink: &captureSink{}}
}

func (c *CaptureLogger) record(level, msg string, fields []logging.Field) {
	all := append(append([]logging.Field{}, c.with...), fields...)
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	c.sink.entries = append(c.sink.entries, Entry{Level: level, Message: msg, Fields: all})
}

func (c *CaptureLogger) Debug(msg string, fields ...logging.Field) { c.record("debug", msg, fields) }
func (c *CaptureLogger) Info(msg string, fields ...logging.Field)  { c.record("info", msg, fields) }
func (c *CaptureLogger) Warn(msg string, fields ...logging.Field)  { c.record("warn", msg, fields) }
func (c *CaptureLogger) Error(msg string, fields ...logging.Field) { c.record("error", msg, fields) }
func (c *CaptureLogger) Fatal(msg string, fields ...logging.Field) { c.record("fatal", msg, fields) }

func (c *CaptureLogger) With(fields ...logging.Field) logging.Logger {
	return &CaptureLogger{
		sink: c.sink,
		with: append(append([]logging.Field{}, c.with...), fields...),
	}
}

func (c *CaptureLogger) Sync() error { return nil }

// Entries returns a copy of everything logged so far.
func (c *CaptureLogger) Entries() []Entry {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	out := make([]Entry, len(c.sink.entries))
	copy(out, c.sink.entries)
	return out
}

// HasMessage reports whether any entry carries the message at the level.
func (c *CaptureLogger) HasMessage(level, msg string) bool {
	for _, e := range c.Entries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
