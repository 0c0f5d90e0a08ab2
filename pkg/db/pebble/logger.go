package pebble

import "github.com/rs/zerolog"

// zerologAdapter routes pebble's internal logging to zerolog.
type zerologAdapter struct {
	log zerolog.Logger
}

func (l zerologAdapter) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l zerologAdapter) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l zerologAdapter) Fatalf(format string, args ...interface{}) {
	l.log.Fatal().Msgf(format, args...)
}
