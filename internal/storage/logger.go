package storage

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// badgerLogger routes badger's printf-style logging into zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func newBadgerLogger(l zerolog.Logger) badgerLogger {
	return badgerLogger{log: l.With().Str("component", "badger").Logger()}
}

// Badger terminates its messages with a newline; zerolog adds its own.
func trimMsg(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.log.Error().Msg(trimMsg(format, args))
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.log.Warn().Msg(trimMsg(format, args))
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.log.Info().Msg(trimMsg(format, args))
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.log.Debug().Msg(trimMsg(format, args))
}
