package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

var (
	once sync.Once
	log  zerolog.Logger
)

// New builds a console logger writing to out at the given level.
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeFormat,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// Get returns the process logger. The level is read once from POMODORO_LOG_LEVEL
// and defaults to info.
func Get() zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = timeFormat
		log = New(os.Stderr, ParseLevel(os.Getenv("POMODORO_LOG_LEVEL")))
	})
	return log
}

// ParseLevel converts a level name to a zerolog level, falling back to info.
func ParseLevel(value string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
