package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases the zerolog.Logger so callers outside the infra package can
// depend on the logging contract without importing the third-party module
// directly.
type Logger = zerolog.Logger

// NewLogger constructs a zerolog.Logger for the service. Development builds
// log at debug level through the console writer; everything else emits JSON.
func NewLogger(appEnv string) Logger {
	return newLogger(os.Stdout, appEnv)
}

// NopLogger returns a logger that discards everything. Used when a component
// is constructed without one.
func NopLogger() *Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func newLogger(out io.Writer, appEnv string) Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" || appEnv == "cli" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "merchmagic").
		Logger()

	if appEnv == "development" || appEnv == "cli" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger
}
