package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log starts disabled so packages that log before Init stay quiet in tests.
var Log = zerolog.Nop()

type ctxKey struct{}

// Init sends logs to stderr; stdout carries rendered command output.
func Init(serviceName string, verbose bool) {
	InitWithWriter(os.Stderr, serviceName, verbose)
}

func InitWithWriter(w io.Writer, serviceName string, verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	Log = zerolog.New(w).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

func WithContext(ctx context.Context, log zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func FromContext(ctx context.Context) zerolog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return log
	}
	return Log
}
