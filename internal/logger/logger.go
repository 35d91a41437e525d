// Package logger provides the configured zerolog logger for the lane
// service.
package logger

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

// New returns a logger tagged with the service name, emitting JSON to
// stdout at the given level ("debug", "info", "warn", "error"; an
// unparseable level falls back to info). Call sites should use .Stack()
// on error events to include stacks.
func New(serviceName, level string) zerolog.Logger {
	// Wire zerolog to github.com/pkg/errors so error events carry stack
	// traces whether or not the error was created with one.
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
		if _, ok := err.(stackTracer); ok {
			return err
		}
		return pkgerrors.WithStack(err)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
