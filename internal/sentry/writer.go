package sentry

import (
	"io"
	"strings"

	gosentry "github.com/getsentry/sentry-go"
)

// Level is the severity a Writer reports its lines at.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Writer tees log lines to an io.Writer and mirrors them to Sentry:
// error lines become events, the rest become breadcrumbs, so a crash
// report carries the log tail that led up to it.
type Writer struct {
	inner io.Writer
	level Level
}

func NewWriter(inner io.Writer, level Level) *Writer {
	return &Writer{inner: inner, level: level}
}

func (w *Writer) Write(p []byte) (int, error) {
	// The log file gets the line whether or not telemetry is on.
	n, err := w.inner.Write(p)
	if !enabled {
		return n, err
	}

	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return n, err
	}

	if w.level == LevelError {
		gosentry.CaptureMessage(msg)
		return n, err
	}
	crumbLevel := gosentry.LevelInfo
	if w.level == LevelWarning {
		crumbLevel = gosentry.LevelWarning
	}
	gosentry.AddBreadcrumb(&gosentry.Breadcrumb{
		Level:    crumbLevel,
		Category: "log",
		Message:  msg,
	})
	return n, err
}
