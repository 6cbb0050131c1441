// package shared defines shared helpers
package shared

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// NewFileLogger creates a [log.Logger] writing to the given file path,
// creating parent directories as needed. Used when stderr is owned by the TUI.
func NewFileLogger(path string) (*log.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewLogger(file), nil
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

const sessionAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSessionID generates a random 64-character alphanumeric session identifier.
func GenerateSessionID() string {
	buf := make([]byte, 64)
	max := big.NewInt(int64(len(sessionAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is broken
			return uuid.New().String() + uuid.New().String()
		}
		buf[i] = sessionAlphabet[n.Int64()]
	}
	return string(buf)
}
