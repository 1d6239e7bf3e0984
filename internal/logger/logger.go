// Package logger builds the zerolog logger shared by every component.
package logger

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dusk-indust/diffdetector/internal/config"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Format is an output encoding for log lines.
type Format int

const (
	FormatConsole Format = iota
	FormatText
	FormatJSON
)

// ParseFormat maps a config value to a Format, defaulting to console.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

// ParseLevel maps a config value to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Builder provides a fluent interface for building loggers.
type Builder struct {
	level      zerolog.Level
	format     Format
	console    io.Writer
	file       string
	maxSizeMB  int
	maxBackups int
}

// NewBuilder returns a builder for an info-level console logger on stderr.
func NewBuilder() *Builder {
	return &Builder{
		level:      zerolog.InfoLevel,
		format:     FormatConsole,
		console:    os.Stderr,
		maxSizeMB:  config.DefaultMaxLogSizeMB,
		maxBackups: config.DefaultMaxLogBackups,
	}
}

// WithConfig applies the log section of the service configuration.
func (b *Builder) WithConfig(cfg config.LogConfig) *Builder {
	b.level = ParseLevel(cfg.Level)
	b.format = ParseFormat(cfg.Format)
	b.file = cfg.File
	if cfg.MaxSizeMB > 0 {
		b.maxSizeMB = cfg.MaxSizeMB
	}
	if cfg.MaxBackups > 0 {
		b.maxBackups = cfg.MaxBackups
	}
	return b
}

// WithOutput replaces the console destination. A nil writer disables console
// output.
func (b *Builder) WithOutput(w io.Writer) *Builder {
	b.console = w
	return b
}

// WithLevel overrides the minimum level.
func (b *Builder) WithLevel(level zerolog.Level) *Builder {
	b.level = level
	return b
}

// Build creates the logger.
func (b *Builder) Build() (zerolog.Logger, error) {
	var writers []io.Writer
	if b.console != nil {
		writers = append(writers, b.encode(b.console, false))
	}
	if b.file != "" {
		if err := os.MkdirAll(filepath.Dir(b.file), 0o755); err != nil {
			return zerolog.Nop(), err
		}
		rotating := &lumberjack.Logger{
			Filename:   b.file,
			MaxSize:    b.maxSizeMB,
			MaxBackups: b.maxBackups,
			LocalTime:  true,
		}
		writers = append(writers, b.encode(rotating, true))
	}
	if len(writers) == 0 {
		return zerolog.Nop(), errors.New("logger: no output writers configured")
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(b.level).
		With().
		Timestamp().
		Logger(), nil
}

// encode wraps out in the writer for the configured format. Files never get
// color codes.
func (b *Builder) encode(out io.Writer, file bool) io.Writer {
	switch b.format {
	case FormatJSON:
		return out
	case FormatText:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	default:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: file}
	}
}

// New builds a logger from the log configuration.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewBuilder().WithConfig(cfg).Build()
}
