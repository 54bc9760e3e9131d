// Package logger builds the zerolog logger every binary hands to its
// components.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level      string `yaml:"level" toml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format     string `yaml:"format" toml:"format" default:"console" validate:"oneof=json console"`
	Output     string `yaml:"output" toml:"output" default:"stderr" validate:"required"` // stdout, stderr, or file path
	TimeFormat string `yaml:"time_format" toml:"time_format"`
}

// New returns a logger writing to cfg.Output. The returned closer
// releases a log file, if one was opened.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level: %w", err)
	}

	var output io.Writer
	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("could not open log file: %w", err)
		}
		output = file
		closer = file
	}

	return build(output, level, cfg.Format, cfg.TimeFormat), closer, nil
}

// NewWriter is New with an explicit writer.
func NewWriter(w io.Writer, cfg Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	return build(w, level, cfg.Format, cfg.TimeFormat), nil
}

func build(output io.Writer, level zerolog.Level, format, timeFormat string) zerolog.Logger {
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	if format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: timeFormat,
		}
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
