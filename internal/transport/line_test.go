package transport

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLineServeSkipsEmptyLinesAndEchoesResponses(t *testing.T) {
	input := strings.NewReader("one\n\ntwo\n")
	var output bytes.Buffer

	l := NewLine(echoHandler, nil)
	if err := l.Serve(context.Background(), input, &output); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	want := "one\ntwo\n"
	if output.String() != want {
		t.Errorf("output = %q, want %q", output.String(), want)
	}
}

func TestLineServeSkipsNilResponses(t *testing.T) {
	input := strings.NewReader("anything\n")
	var output bytes.Buffer

	l := NewLine(func(context.Context, []byte) []byte { return nil }, nil)
	if err := l.Serve(context.Background(), input, &output); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if output.Len() != 0 {
		t.Errorf("expected no output, got %q", output.String())
	}
}
