// Package cli provides the command-line interface for escritorio.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/curillo/escritorio/internal/config"
	"github.com/curillo/escritorio/internal/errors"
	"github.com/curillo/escritorio/internal/logging"
)

// Log rotation settings for the file writer.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// logFileWriter holds the log file writer for cleanup purposes.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// InitLogger creates and configures a zerolog.Logger from the loaded
// configuration and the verbosity flags.
//
// Log levels: --verbose forces debug, --quiet forces warn, otherwise the
// configured log.level applies. Output format follows the terminal: a
// console writer on a TTY without NO_COLOR, JSON to stderr otherwise.
// When log.file is set the logger also writes there with rotation; a
// file that cannot be opened degrades to console-only output.
func InitLogger(cfg *config.Config, verbose, quiet bool) zerolog.Logger {
	writer := selectOutput()

	if cfg.Log.File != "" {
		if fw, err := createLogFileWriter(cfg.Log.File); err == nil {
			logFileWriter = fw
			writer = zerolog.MultiLevelWriter(writer, fw)
		}
	}

	logger := zerolog.New(writer).
		Level(selectLevel(cfg, verbose, quiet)).
		Hook(logging.NewSensitiveDataHook()).
		With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// CloseLogFile closes the log file writer if one was opened. Called
// during shutdown.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the log level from flags and configuration.
func selectLevel(cfg *config.Config, verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// selectOutput determines the output writer based on terminal
// capabilities and environment settings.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser wraps a WriteCloser with sensitive data filtering
// so credentials never reach the log file.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

func (fwc *filteringWriteCloser) Write(p []byte) (n int, err error) {
	return fwc.filter.Write(p)
}

func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter creates a rotating, filtered file writer at path.
func createLogFileWriter(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}
