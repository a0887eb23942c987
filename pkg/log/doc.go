/*
Package log provides structured logging for nmctl using zerolog.

The log package wraps zerolog with a small initialization layer and helpers
for creating child loggers scoped to a component or a managed resource. All
output goes to stderr by default so that command results on stdout stay
machine-parseable.

# Usage

Initialize once at startup, then derive child loggers:

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: false})

	logger := log.WithComponent("reconciler")
	logger.Info().Str("network", "iot-network").Msg("network created")

# Output Formats

Two output formats are supported:

  - Console: human-readable, colorized, for interactive use
  - JSON: machine-readable, for collection pipelines

Level is one of debug, info, warn, error. The default is info.
*/
package log
