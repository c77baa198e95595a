// Package wirelog is the shared structured-logging convention used across
// the frame, packets, session, and muxer packages: a zerolog.Logger passed
// explicitly into constructors, the way github.com/tzrikka/timpani threads
// loggers through its worker constructors rather than reaching for a
// package-level global.
package wirelog

import "github.com/rs/zerolog"

// Stage annotates every event this package logs with the reframe stage that
// produced it, so a process mounting several transports can tell their log
// lines apart.
func Stage(logger zerolog.Logger, stage string) zerolog.Logger {
	return logger.With().Str("stage", stage).Logger()
}
