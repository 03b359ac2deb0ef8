package tools

import (
	"context"
	"fmt"

	"github.com/nullpointers/mcp-datasource/internal/fileread"
	"github.com/nullpointers/mcp-datasource/internal/rpc"
)

// NewParseFileTool dispatches to fileread's extension-based parsers and
// returns the normalized rows.
func NewParseFileTool() Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name:        "parse_file",
			Description: "Parse CSV, JSON, XML, Excel files",
			InputSchema: schema(map[string]any{
				"file_path": map[string]any{"type": "string"},
			}, "file_path"),
		},
		Handle: func(_ context.Context, args map[string]any) (any, error) {
			path, ok := stringArg(args, "file_path")
			if !ok || path == "" {
				return nil, fmt.Errorf("tools: parse_file: `file_path` is required")
			}
			rows, err := fileread.ReadFile(path)
			if err != nil {
				return map[string]any{"success": false, "error": map[string]any{"message": err.Error()}}, nil
			}
			return map[string]any{"success": true, "rows": rows}, nil
		},
	}
}
