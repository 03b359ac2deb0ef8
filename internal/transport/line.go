// Package transport provides the line-delimited stdio transport and the
// concurrent socket transport over which the RPC engine is reached.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// RawHandler matches rpc.Engine.HandleRaw: parse+dispatch one envelope,
// returning the response bytes to write (nil for notifications).
type RawHandler func(ctx context.Context, raw []byte) []byte

// Line serves one RPC engine over newline-delimited stdio: one request per
// input line, one response per output line, flushed immediately. Requests
// are handled strictly sequentially — there is exactly one reader.
type Line struct {
	Handler RawHandler
	Logger  *zap.Logger
}

// NewLine builds a Line transport. logger may be nil.
func NewLine(handler RawHandler, logger *zap.Logger) *Line {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Line{Handler: handler, Logger: logger}
}

// Serve reads newline-delimited envelopes from r until EOF, writing each
// non-nil response followed by a newline to w.
func (l *Line) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		// Copy: scanner.Bytes() is reused on the next Scan call.
		raw := make([]byte, len(line))
		copy(raw, line)

		resp := l.Handler(ctx, raw)
		if resp == nil {
			continue
		}
		if _, err := w.Write(resp); err != nil {
			return fmt.Errorf("line transport: write response: %w", err)
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return fmt.Errorf("line transport: write newline: %w", err)
		}
		if f, ok := w.(interface{ Flush() error }); ok {
			_ = f.Flush()
		} else if f, ok := w.(interface{ Sync() error }); ok {
			_ = f.Sync()
		}
	}
	if err := scanner.Err(); err != nil {
		l.Logger.Error("line transport: scan error", zap.Error(err))
		return err
	}
	return nil
}
