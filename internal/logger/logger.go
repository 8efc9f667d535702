package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a timestamped logger writing to w. Development output is
// human-readable; everything else is JSON.
func New(env string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Output returns stdout, teed into the log file at path when path is set.
// The returned close function is never nil.
func Output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return io.MultiWriter(os.Stdout, f), f.Close, nil
}

// Named returns a child logger tagged with a component name.
func Named(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
