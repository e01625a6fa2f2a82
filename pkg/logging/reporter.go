package logging

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Reporter is the message channel of a reconciliation run. *zerolog.Logger
// satisfies it, so a reporter is just a logger with the run's level.
type Reporter interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Error() *zerolog.Event
}

// ReporterLevel maps the verbose/quiet switches to a level. Quiet wins and
// disables everything; verbose shows informational lines; otherwise only
// errors are shown.
func ReporterLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case quiet:
		return zerolog.Disabled
	case verbose:
		return zerolog.InfoLevel
	default:
		return zerolog.ErrorLevel
	}
}

// NewReporter returns a human-readable reporter writing to w.
func NewReporter(w io.Writer, verbose, quiet bool) *zerolog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !IsTerminal(f)
	}
	console := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      noColor,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	logger := zerolog.New(console).Level(ReporterLevel(verbose, quiet))
	return &logger
}

// NewJSONReporter returns a reporter emitting one JSON object per line. Tests
// use it to assert on levels and fields.
func NewJSONReporter(w io.Writer, level zerolog.Level) *zerolog.Logger {
	logger := zerolog.New(w).Level(level)
	return &logger
}

// NopReporter discards everything.
func NopReporter() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// WithRunID tags every line of a reporter with a fresh run id.
func WithRunID(logger *zerolog.Logger) (*zerolog.Logger, string) {
	id := uuid.NewString()
	tagged := logger.With().Str("run_id", id).Logger()
	return &tagged, id
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
