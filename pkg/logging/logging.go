package logging

import (
	"io"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/rs/zerolog"
)

// New returns the application logger. format is "json" or "console".
func New(level, format string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if out == nil {
		out = os.Stdout
	}

	writer := out
	if format != "json" {
		writer = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl), nil
}

// EchoLevel maps a zerolog level onto echo's framework logger.
func EchoLevel(level zerolog.Level) log.Lvl {
	switch {
	case level <= zerolog.DebugLevel:
		return log.DEBUG
	case level == zerolog.InfoLevel:
		return log.INFO
	case level == zerolog.WarnLevel:
		return log.WARN
	case level == zerolog.Disabled:
		return log.OFF
	default:
		return log.ERROR
	}
}
