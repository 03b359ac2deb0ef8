// Package audit appends structured request-audit lines to a log file,
// independent of the application's normal structured logger, so tool
// invocations remain traceable even when log level is turned down.
package audit

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Writer appends audit lines of the form
// "timestamp | event | user=<v> | <detail>" to an underlying file.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// Open opens (creating and appending to) the audit log at path.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	return &Writer{file: f, now: time.Now}, nil
}

// Log appends one audit entry. It satisfies rpc.AuditFunc's shape.
func (w *Writer) Log(event, user, detail string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	line := fmt.Sprintf("%s | %s | user=%s | %s\n", w.now().UTC().Format(time.RFC3339Nano), event, user, detail)
	if _, err := w.file.WriteString(line); err != nil {
		// The audit trail is best-effort: a write failure here must not take
		// down request handling.
		return
	}
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.file.Close()
}
