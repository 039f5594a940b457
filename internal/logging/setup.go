// Package logging configures zerolog for the CLI and carries loggers through contexts.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log level, console format and the optional rotating file sink.
type Config struct {
	Level  string
	Format string // "console" or "json"
	File   FileConfig
}

// FileConfig configures the lumberjack file sink.
type FileConfig struct {
	Enabled    bool
	Path       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// New builds a logger writing to out (usually stderr) and, when enabled, to a
// rotating log file. The returned cleanup closes the file sink.
func New(cfg Config, out io.Writer) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var console io.Writer = out
	if cfg.Format != "json" {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	cleanup := func() {}
	writer := console

	if cfg.File.Enabled {
		if cfg.File.Path == "" {
			return zerolog.Nop(), cleanup, fmt.Errorf("log file enabled but no path configured")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File.Path), 0700); err != nil {
			return zerolog.Nop(), cleanup, fmt.Errorf("failed to create log directory: %w", err)
		}

		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSize,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAge,
			Compress:   cfg.File.Compress,
		}
		writer = zerolog.MultiLevelWriter(console, fileWriter)
		cleanup = func() { _ = fileWriter.Close() }
	}

	log := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return log, cleanup, nil
}

// Default returns a console logger on stderr at info level.
func Default() zerolog.Logger {
	log, _, _ := New(Config{Level: "info", Format: "console"}, os.Stderr)
	return log
}
