// Package logging routes the standard logger to a file (the terminal belongs
// to the UI) and appends optional JSON trace entries to the same file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
)

const prefix = "benotes"

var (
	mu           sync.Mutex
	traceEnabled bool
	out          io.Writer = io.Discard
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Configure sends log output to path. An empty path discards it. Directories
// are created automatically when missing. The returned closer releases the file.
func Configure(path string) (io.Closer, error) {
	mu.Lock()
	defer mu.Unlock()

	if strings.TrimSpace(path) == "" {
		log.SetOutput(io.Discard)
		out = io.Discard
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}
	out = f
	return f, nil
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether Trace writes anything.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the log when tracing is enabled.
func Trace(event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !traceEnabled {
		return
	}

	entry := struct {
		Time    time.Time   `json:"time"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}
	if err := json.NewEncoder(out).Encode(entry); err != nil {
		log.Printf("[logging] trace encoding failed: %v", err)
	}
}
