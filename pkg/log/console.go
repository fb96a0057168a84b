package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

// Console formats for protocol events.
const (
	FormatSlog    = "slog"
	FormatZerolog = "zerolog"
	FormatLogrus  = "logrus"
)

// ErrUnknownFormat is returned for a console format that is not supported.
var ErrUnknownFormat = errors.New("unknown log format")

// ParseFormat normalizes a console format name. Empty means FormatSlog.
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case "":
		return FormatSlog, nil
	case FormatSlog, FormatZerolog, FormatLogrus:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (want slog, zerolog or logrus)", ErrUnknownFormat, name)
}

// NewConsoleLogger returns a Logger printing protocol events to w through
// the named logging library. Events below level are dropped.
func NewConsoleLogger(format string, w io.Writer, level slog.Level) (Logger, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatZerolog:
		logger := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
			Level(zerologLevel(level)).
			With().Timestamp().Logger()
		return NewZerologAdapter(logger), nil

	case FormatLogrus:
		logger := logrus.New()
		logger.SetOutput(w)
		logger.SetLevel(logrusLevel(level))
		return NewLogrusAdapter(logger), nil
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler)), nil
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level <= slog.LevelDebug:
		return zerolog.DebugLevel
	case level <= slog.LevelInfo:
		return zerolog.InfoLevel
	case level <= slog.LevelWarn:
		return zerolog.WarnLevel
	}
	return zerolog.ErrorLevel
}

func logrusLevel(level slog.Level) logrus.Level {
	switch {
	case level <= slog.LevelDebug:
		return logrus.DebugLevel
	case level <= slog.LevelInfo:
		return logrus.InfoLevel
	case level <= slog.LevelWarn:
		return logrus.WarnLevel
	}
	return logrus.ErrorLevel
}
