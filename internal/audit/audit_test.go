package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogWritesStructuredLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w.now = func() time.Time { return time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC) }
	defer w.Close()

	w.Log("request_start", "alice", "method=query_data")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.Contains(line, "request_start") || !strings.Contains(line, "user=alice") || !strings.Contains(line, "method=query_data") {
		t.Errorf("unexpected audit line: %q", line)
	}
	if !strings.HasPrefix(line, "2026-07-31T12:00:00") {
		t.Errorf("expected timestamp prefix, got %q", line)
	}
}

func TestLogAppendsAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()

	w.Log("request_start", "bob", "a")
	w.Log("request_end", "bob", "b")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
}
