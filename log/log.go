package log

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jmllorens/cartero/internal/sentry"
)

var logFileName = filepath.Join(os.TempDir(), "cartero.log")

var (
	// InfoLog logs informational messages.
	InfoLog *log.Logger
	// WarningLog logs recoverable oddities.
	WarningLog *log.Logger
	// ErrorLog logs failures.
	ErrorLog *log.Logger
)

var globalLogFile *os.File

const logFlags = log.LstdFlags | log.Lshortfile

func init() {
	// Tests and library consumers may not call Initialize; default to stderr
	// so the package-level loggers are never nil.
	InfoLog = log.New(os.Stderr, "INFO: ", logFlags)
	WarningLog = log.New(os.Stderr, "WARNING: ", logFlags)
	ErrorLog = log.New(os.Stderr, "ERROR: ", logFlags)
}

// Initialize points the package loggers at the log file. A TUI owns the
// terminal, so nothing may write to stdout or stderr while the program runs.
// Call Close on exit.
func Initialize() {
	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		// A missing log file must not stop the app; keep the stderr loggers.
		return
	}
	globalLogFile = f
	InfoLog = log.New(f, "INFO: ", logFlags)
	// Warnings and errors also feed telemetry: breadcrumbs for the
	// former, events for the latter. A no-op unless sentry is enabled.
	WarningLog = log.New(sentry.NewWriter(f, sentry.LevelWarning), "WARNING: ", logFlags)
	ErrorLog = log.New(sentry.NewWriter(f, sentry.LevelError), "ERROR: ", logFlags)
}

// Close closes the log file. If anything was written, print the location so
// the user can find it.
func Close() {
	if globalLogFile == nil {
		return
	}
	_ = globalLogFile.Close()
	globalLogFile = nil
	if stat, err := os.Stat(logFileName); err == nil && stat.Size() > 0 {
		fmt.Printf("log file: %s\n", logFileName)
	}
}
