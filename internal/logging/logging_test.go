package logging

import "testing"

func TestNewDefaultsToLogfmt(t *testing.T) {
	logger := New(nil)
	if logger == nil {
		t.Fatal("New(nil) returned nil logger")
	}
	logger.Info("hello")
}

func TestNewNoop(t *testing.T) {
	logger := New(&Config{Style: StyleNoop})
	if logger == nil {
		t.Fatal("New returned nil logger")
	}
	// Noop logger must not panic on use.
	logger.Info("discarded")
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	logger := New(&Config{Style: StyleLogfmt, Level: "not-a-level"})
	if logger == nil {
		t.Fatal("New returned nil logger")
	}
}
