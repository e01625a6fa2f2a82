package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AppName names the state directory and log file.
const AppName = "dotsetup"

// consoleVerbosity is the -v count at which diagnostics reach stderr.
// Below it the per-run reporter owns all human output.
const consoleVerbosity = 2

// LevelFor maps a -v count to the global log level.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger installs the global logger. Everything goes to the log file
// under the state directory; stderr only joins in at -vv.
func SetupLogger(verbosity int) {
	zerolog.SetGlobalLevel(LevelFor(verbosity))

	var sinks []io.Writer
	if verbosity >= consoleVerbosity {
		sinks = append(sinks, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    !IsTerminal(os.Stderr),
		})
	}

	logPath := getLogFilePath()
	file, fileErr := openLogFile(logPath)
	if fileErr == nil {
		sinks = append(sinks, file)
	}

	var out io.Writer = io.Discard
	if len(sinks) > 0 {
		out = io.MultiWriter(sinks...)
	}

	ctx := zerolog.New(out).With().Timestamp()
	if verbosity >= consoleVerbosity {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logPath).Msg("log file unavailable")
	}
	log.Debug().Int("verbosity", verbosity).Str("log_file", logPath).Msg("logger ready")
}

// GetLogger returns the global logger tagged with a component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// getLogFilePath honours XDG_STATE_HOME, falling back to ~/.local/state.
// The environment is read on every call so tests can redirect it.
func getLogFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return AppName + ".log"
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, AppName, AppName+".log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
