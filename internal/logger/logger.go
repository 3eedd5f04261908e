package logger

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/config"
)

// New builds the root logger for the given environment: human-readable
// console output in development, leveled JSON everywhere else.
func New(env config.Environment) zerolog.Logger {
	if env == config.Development {
		return zerolog.New(zerolog.NewConsoleWriter()).
			With().Timestamp().Caller().Logger().
			Level(zerolog.DebugLevel)
	}
	return zerolog.New(os.Stderr).
		With().Timestamp().Str("service", "royal-equips-orchestrator").Logger().
		Level(zerolog.InfoLevel)
}
