// Package logger configures the process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	LogFormatJSONValue = "json"
	LogFormatTextValue = "text"
)

// SetLogLevel replaces log.Logger with a logger writing to stderr at the
// given level and format. The new logger also becomes the context default,
// so log.Ctx on a context without a logger uses it.
func SetLogLevel(logLevelStr string, logFormat string) error {
	return SetLogOutput(os.Stderr, logLevelStr, logFormat)
}

// SetLogOutput is SetLogLevel with an explicit destination.
func SetLogOutput(w io.Writer, logLevelStr string, logFormat string) error {
	logger, err := New(w, logLevelStr, logFormat)
	if err != nil {
		return err
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
	return nil
}

// New builds a logger without installing it.
func New(w io.Writer, logLevelStr string, logFormat string) (zerolog.Logger, error) {
	logLevel, err := ParseLevel(logLevelStr)
	if err != nil {
		return zerolog.Nop(), err
	}

	var formatWriter io.Writer
	switch logFormat {
	case LogFormatJSONValue:
		formatWriter = w
	case LogFormatTextValue:
		formatWriter = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %s", logFormat)
	}

	if logLevel == zerolog.DebugLevel {
		return zerolog.New(formatWriter).
			Level(logLevel).
			With().
			Timestamp().
			Caller().
			Int("pid", os.Getpid()).Logger(), nil
	}
	return zerolog.New(formatWriter).
		Level(logLevel).
		With().
		Timestamp().
		Logger(), nil
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(logLevelStr string) (zerolog.Level, error) {
	switch logLevelStr {
	case zerolog.LevelDebugValue:
		return zerolog.DebugLevel, nil
	case zerolog.LevelInfoValue:
		return zerolog.InfoLevel, nil
	case zerolog.LevelWarnValue:
		return zerolog.WarnLevel, nil
	case zerolog.LevelErrorValue:
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %s", logLevelStr)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
