package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const logFileName = "crewmap.log"

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// setupLogging opens the log file in the data directory. The terminal is
// owned by the board view, so nothing is logged to stdout.
func setupLogging(config *Config) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create data dir: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(config.DataDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        file,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).Level(parseLogLevel(config.LogLevel)).With().Timestamp().Logger()

	logger.Info().Str("loglevel", logger.GetLevel().String()).Msg("Logging set up")
	return logger, file, nil
}
