package shared

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds a zerolog logger writing to w. Unless jsonOutput is set
// the output is human readable console text. An empty level means info.
func NewLogger(w io.Writer, level string, jsonOutput bool) (zerolog.Logger, error) {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if normalized == "" {
		normalized = zerolog.LevelInfoValue
	}
	parsed, err := zerolog.ParseLevel(normalized)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(parsed).With().Timestamp().Logger(), nil
}

// LoggerOrNop dereferences logger, falling back to a disabled logger.
func LoggerOrNop(logger *zerolog.Logger) zerolog.Logger {
	if logger == nil {
		return zerolog.Nop()
	}
	return *logger
}
