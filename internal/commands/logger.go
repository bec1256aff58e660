package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dcmtrack/dcmtrack/internal/config"
)

// newLogger builds the run logger. Level precedence, highest first:
// --log-level, -v/--verbose, -q/--quiet, the config file, then "info".
func newLogger(flags *globalFlags, cfg *config.Config) zerolog.Logger {
	level := determineLogLevel(flags, cfg)

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func determineLogLevel(flags *globalFlags, cfg *config.Config) zerolog.Level {
	if flags.logLevel != "" {
		return parseLevel(flags.logLevel)
	}
	if flags.verbose && flags.quiet {
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		return zerolog.WarnLevel
	}
	if flags.verbose {
		return zerolog.DebugLevel
	}
	if flags.quiet {
		return zerolog.WarnLevel
	}
	if cfg != nil && cfg.Log.Level != "" {
		return parseLevel(cfg.Log.Level)
	}
	return zerolog.InfoLevel
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using \"info\"\n", s)
		return zerolog.InfoLevel
	}
	return level
}
