// Package log provides the structured logger used across moragents.
// It wraps zerolog with a small field-oriented API so call sites read
// log.WithField("k", v).Info("msg").
package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = zerolog.Nop()
)

// Entry is a logger carrying accumulated fields.
type Entry struct {
	l zerolog.Logger
}

// InitLogger configures the global logger.
// When pretty is true, output goes through zerolog's console writer.
func InitLogger(w io.Writer, level zerolog.Level, pretty bool) {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	mu.Lock()
	logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	mu.Unlock()
}

// FileOptions controls the rotating log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// InitFileLogger points the global logger at a rotating log file.
// The TUI uses it because stderr belongs to the terminal UI while it runs.
func InitFileLogger(opts FileOptions, level zerolog.Level) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}

	InitLogger(rotator, level, false)
	return rotator, nil
}

// ParseLevel converts a config level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// WithField returns an entry with a single field attached.
func WithField(key string, value interface{}) *Entry {
	return &Entry{l: current().With().Interface(key, value).Logger()}
}

// WithFields returns an entry with all given fields attached.
func WithFields(fields map[string]interface{}) *Entry {
	return &Entry{l: current().With().Fields(fields).Logger()}
}

// WithError returns an entry with the error attached.
func WithError(err error) *Entry {
	return &Entry{l: current().With().Err(err).Logger()}
}

// WithField adds a field to the entry.
func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{l: e.l.With().Interface(key, value).Logger()}
}

// WithFields adds several fields to the entry.
func (e *Entry) WithFields(fields map[string]interface{}) *Entry {
	return &Entry{l: e.l.With().Fields(fields).Logger()}
}

// WithError adds an error to the entry.
func (e *Entry) WithError(err error) *Entry {
	return &Entry{l: e.l.With().Err(err).Logger()}
}

func (e *Entry) Debug(msg string) { e.l.Debug().Msg(msg) }
func (e *Entry) Info(msg string)  { e.l.Info().Msg(msg) }
func (e *Entry) Warn(msg string)  { e.l.Warn().Msg(msg) }
func (e *Entry) Error(msg string) { e.l.Error().Msg(msg) }

func Debug(msg string) {
	l := current()
	l.Debug().Msg(msg)
}

func Info(msg string) {
	l := current()
	l.Info().Msg(msg)
}

func Warn(msg string) {
	l := current()
	l.Warn().Msg(msg)
}

func Error(msg string) {
	l := current()
	l.Error().Msg(msg)
}
