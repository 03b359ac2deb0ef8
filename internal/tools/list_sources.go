package tools

import (
	"context"

	"github.com/nullpointers/mcp-datasource/internal/rpc"
)

// ListSourcesConfig carries the descriptive metadata list_sources reports;
// it names the configured backends without exposing live connection state.
type ListSourcesConfig struct {
	SQLitePath string
	MockAPIURL string
	FilePaths  []string
}

// NewListSourcesTool describes every configured data source: the SQLite
// path, the mock REST API's base URL and auth scheme, and any file sources.
func NewListSourcesTool(cfg ListSourcesConfig) Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name:        "list_sources",
			Description: "List all configured data sources with metadata",
			InputSchema: schema(map[string]any{}),
		},
		Handle: func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]any{
				"sources": []map[string]any{
					{"name": "SQLite Database", "type": "sql", "path": cfg.SQLitePath},
					{
						"name": "REST API", "type": "api", "mock_url": cfg.MockAPIURL,
						"auth": map[string]any{"header": "x-api-key", "sample_key": "demo-key"},
					},
					{"name": "Files", "type": "file", "paths": cfg.FilePaths},
				},
			}, nil
		},
	}
}
