package logger

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	current.Store(&l)
}

// Init configures the process-wide JSON logger. Unknown levels fall back to info.
func Init(level string) {
	InitWithWriter(os.Stdout, level)
}

// InitWithWriter is Init with an explicit destination, used by tests.
func InitWithWriter(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	current.Store(&l)

	l.Info().Msg("logger initialized")
}

// Get returns the underlying zerolog logger.
func Get() *zerolog.Logger {
	return current.Load()
}

func Debug(msg string, fields map[string]any) {
	Get().Debug().Fields(fields).Msg(msg)
}

func Info(msg string, fields map[string]any) {
	Get().Info().Fields(fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	Get().Warn().Fields(fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	Get().Error().Fields(fields).Msg(msg)
}

func Fatal(msg string, fields map[string]any) {
	// zerolog's Fatal level exits after writing.
	Get().Fatal().Fields(fields).Msg(msg)
}
