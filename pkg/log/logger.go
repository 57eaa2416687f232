// Package log provides the leveled, timestamped progress log for the
// automatminer pipeline. Records go to a stream (stderr) and, optionally,
// to a log file; cockroachdb/errors stack traces attached to logged errors
// are surfaced as a "stacktrace" attribute.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	amerrors "github.com/ardunn/automatminer/pkg/errors"
)

// DefaultLogFile is the file the pipeline logs to when none is given.
const DefaultLogFile = "automatminer.log"

// Setup initializes the default logger, writing to stderr and to logFile.
// An empty logFile disables the file sink. The returned closer owns the
// log file handle.
func Setup(loglevel string, logFile string) (io.Closer, error) {
	var writers []io.Writer
	writers = append(writers, os.Stderr)

	var closer io.Closer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	ops := slog.HandlerOptions{
		Level: ToLogLevel(loglevel),
	}
	handler := slog.NewTextHandler(io.MultiWriter(writers...), &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))

	// Route stage warnings (row-level featurization failures and the like)
	// through the same logger.
	amerrors.SetWarningHandler(func(w error) {
		slog.Warn(w.Error())
	})
	return closer, nil
}

// SetupZerologWarnings routes stage warnings through a zerolog logger,
// surfacing their structured fields (routine, column, row) as event
// attributes instead of flattened text. This sink takes precedence over
// the handler installed by Setup.
func SetupZerologWarnings(logger zerolog.Logger) {
	amerrors.SetZerologWarnFunc(func(w error) {
		var marshaler zerolog.LogObjectMarshaler
		if amerrors.As(w, &marshaler) {
			logger.Warn().Object("warning", marshaler).Msg("pipeline warning")
			return
		}
		logger.Warn().Err(w).Msg("pipeline warning")
	})
}

// SetupNull installs a logger that discards every record. Useful when the
// pipeline is embedded as a library and the host owns logging.
func SetupNull() {
	handler := slog.NewTextHandler(io.Discard, nil)
	slog.SetDefault(slog.New(handler))
	amerrors.SetWarningHandler(func(error) {})
	amerrors.SetZerologWarnFunc(nil)
}

// ToLogLevel converts a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info", "":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level: %s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr wraps an error for passing to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
