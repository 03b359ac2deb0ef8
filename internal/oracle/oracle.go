// Package oracle provides the natural-language-to-SQL boundary used by the
// query_data, analyze_schema and suggest_queries tools. It carries a
// deterministic mock and no client for a live model server, so behavior
// never depends on what is or isn't running.
package oracle

import (
	"context"
	"fmt"
	"strings"
)

// Oracle answers a free-text prompt with a free-text response. Callers that
// need SQL out of it are responsible for treating the response as
// untrusted — Oracle itself does not validate or execute anything.
type Oracle func(ctx context.Context, prompt string) (string, error)

// MockResponse is returned for prompts the mock oracle doesn't recognize a
// more specific shape for.
const MockResponse = "MOCK_RESPONSE"

// Mock is a deterministic stand-in for a real NL model: it recognizes a
// few fixed prompt shapes (convert-to-SQL, explain-query) so callers and
// tests can exercise the oracle boundary without a live model server.
func Mock(_ context.Context, prompt string) (string, error) {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "convert") && strings.Contains(lower, "sql"):
		return "SELECT * FROM users LIMIT 10;", nil
	case strings.Contains(lower, "explain"):
		return "MOCK EXPLAIN: SCAN TABLE users", nil
	default:
		return MockResponse, nil
	}
}

// New returns Mock when mock is true; otherwise it returns an Oracle that
// always fails, since this deployment carries no real model-server client.
// Callers that need a live backend must supply their own Oracle.
func New(mock bool) Oracle {
	if mock {
		return Mock
	}
	return func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("oracle: no live model backend configured and mock mode is disabled")
	}
}
