package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Verbosity levels
const (
	LevelQuiet = iota // only errors and warnings
	LevelInfo         // progress reports, phase changes (shell default)
	LevelDebug        // -v: scheduler and loader details
	LevelTrace        // -vv: per-tick details
)

var (
	verbosity  int
	logger     zerolog.Logger
	output     io.Writer
	inProgress bool // tracks if we have an in-progress line
)

// Initialize sets up the global logger with the specified verbosity level
func Initialize(level int, w io.Writer) {
	verbosity = level
	output = w
	inProgress = false
	logger = newLogger(level, w)
}

func newLogger(level int, w io.Writer) zerolog.Logger {
	var zlevel zerolog.Level
	switch {
	case level >= LevelTrace:
		zlevel = zerolog.TraceLevel
	case level >= LevelDebug:
		zlevel = zerolog.DebugLevel
	case level >= LevelInfo:
		zlevel = zerolog.InfoLevel
	default:
		zlevel = zerolog.WarnLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(cw).Level(zlevel).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// Info logs at info level
func Info(msg string, args ...any) {
	if verbosity >= LevelInfo {
		clearProgress()
		logger.Info().Fields(args).Msg(msg)
	}
}

// Debug logs at debug level (-v)
func Debug(msg string, args ...any) {
	if verbosity >= LevelDebug {
		clearProgress()
		logger.Debug().Fields(args).Msg(msg)
	}
}

// Trace logs at trace level (-vv)
func Trace(msg string, args ...any) {
	if verbosity >= LevelTrace {
		clearProgress()
		logger.Trace().Fields(args).Msg(msg)
	}
}

// Warn logs at warn level (always visible)
func Warn(msg string, args ...any) {
	clearProgress()
	logger.Warn().Fields(args).Msg(msg)
}

// Error logs at error level (always visible)
func Error(msg string, args ...any) {
	clearProgress()
	logger.Error().Fields(args).Msg(msg)
}

// Progress prints a progress message with carriage return (no newline)
// Only shown at info level or higher
func Progress(format string, args ...any) {
	if verbosity >= LevelInfo {
		inProgress = true
		_, _ = fmt.Fprintf(output, "\r"+format, args...)
	}
}

// ProgressDone completes a progress line with "done" and newline
func ProgressDone() {
	if verbosity >= LevelInfo && inProgress {
		_, _ = fmt.Fprintln(output, " done")
		inProgress = false
	}
}

// ProgressClear clears the current progress line
func ProgressClear() {
	if inProgress {
		_, _ = fmt.Fprint(output, "\r\033[K") // carriage return + clear to end of line
		inProgress = false
	}
}

// clearProgress ensures we don't write over a progress line
func clearProgress() {
	if inProgress {
		_, _ = fmt.Fprintln(output)
		inProgress = false
	}
}

// IsTrace returns true if trace-level logging is enabled. Callers on the
// tick path check it before building fields.
func IsTrace() bool {
	return verbosity >= LevelTrace
}

func init() {
	// Default initialization with quiet mode to stderr
	Initialize(LevelQuiet, os.Stderr)
}
