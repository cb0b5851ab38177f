// Package logging provides per-component child loggers off the global
// zerolog logger configured at startup.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns a child logger tagged with the component name under
// the "cmp" key. Detectors, the engine, and the watcher each create one
// at construction so log lines are attributable.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
