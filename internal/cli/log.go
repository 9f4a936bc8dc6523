package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	pkgerrors "github.com/matzehuels/pkgscore/pkg/errors"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLogLevel reads a LOG_LEVEL value: 0 silences everything but fatal
// errors, 1 is info, 2 is debug. Level names ("warn", "error") are accepted
// as well.
func parseLogLevel(s string) (log.Level, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		switch {
		case n <= 0:
			return log.FatalLevel, nil
		case n == 1:
			return log.InfoLevel, nil
		default:
			return log.DebugLevel, nil
		}
	}
	level, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfig, err, "invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

// logSettings resolves the log level and destination. --verbose wins over
// LOG_LEVEL. When LOG_FILE is set the returned writer is the opened file and
// the closer must be closed by the caller; otherwise w is nil and the
// current destination stays.
func logSettings(verbose bool, current log.Level) (level log.Level, w io.Writer, closer io.Closer, err error) {
	level = current
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		if level, err = parseLogLevel(env); err != nil {
			return 0, nil, nil, err
		}
	}
	if verbose {
		level = log.DebugLevel
	}

	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("open LOG_FILE: %w", err)
		}
		return level, f, f, nil
	}
	return level, nil, nil, nil
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Evaluated 3 packages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// withLogger returns a new context with the given logger attached. Library
// code retrieves it with log.FromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return log.WithContext(ctx, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	return log.FromContext(ctx)
}
