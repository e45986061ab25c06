// Package logger constructs the application's slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Options controls handler construction.
type Options struct {
	Level  slog.Level
	Format string // "text" or "json"
}

// New builds a slog logger writing to output. A nil output falls back to
// stdout.
func New(opts Options, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	switch opts.Format {
	case "json":
		handler = slog.NewJSONHandler(output, handlerOpts)
	default:
		handler = slog.NewTextHandler(output, handlerOpts)
	}

	return slog.New(handler)
}
