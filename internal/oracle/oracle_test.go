package oracle

import (
	"context"
	"testing"
)

func TestMockConvertsToSQL(t *testing.T) {
	got, err := Mock(context.Background(), "please convert this question to sql")
	if err != nil {
		t.Fatalf("Mock: %v", err)
	}
	if got != "SELECT * FROM users LIMIT 10;" {
		t.Errorf("got %q", got)
	}
}

func TestMockExplainsQuery(t *testing.T) {
	got, err := Mock(context.Background(), "explain this query")
	if err != nil {
		t.Fatalf("Mock: %v", err)
	}
	if got != "MOCK EXPLAIN: SCAN TABLE users" {
		t.Errorf("got %q", got)
	}
}

func TestMockFallsBackToGenericResponse(t *testing.T) {
	got, err := Mock(context.Background(), "what's the weather")
	if err != nil {
		t.Fatalf("Mock: %v", err)
	}
	if got != MockResponse {
		t.Errorf("got %q, want %q", got, MockResponse)
	}
}

func TestNewWithoutMockFails(t *testing.T) {
	o := New(false)
	if _, err := o(context.Background(), "anything"); err == nil {
		t.Error("expected error from non-mock oracle with no live backend configured")
	}
}
