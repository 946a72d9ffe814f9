// Package diaglog is the append-only diagnostic log written by the intake and
// access pipelines. Lines are plain text, prefixed with a timestamp, meant for
// operators rather than machines.
package diaglog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger appends diagnostic lines. The zero value is not usable; use New or Discard.
type Logger struct {
	mu     sync.Mutex
	zl     zerolog.Logger
	closer io.Closer
}

// New opens path for appending and mirrors every line to stderr.
func New(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open diagnostic log %s: %w", path, err)
	}

	w := zerolog.MultiLevelWriter(consoleWriter(f), consoleWriter(os.Stderr))
	return &Logger{zl: zerolog.New(w).With().Timestamp().Logger(), closer: f}, nil
}

// NewWriter writes lines to w only. Used by tests and by callers that own the sink.
func NewWriter(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(consoleWriter(w)).With().Timestamp().Logger()}
}

// Discard drops everything.
func Discard() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: timeFormat,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.MessageFieldName},
	}
}

// Log appends message, and data rendered with %+v when it is non-nil.
// It never fails; write errors are swallowed by zerolog.
func (l *Logger) Log(message string, data any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	ev := l.zl.Log()
	if data != nil {
		ev = ev.Str("data", fmt.Sprintf("%+v", data))
	}
	ev.Msg(message)
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
