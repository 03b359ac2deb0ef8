package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nullpointers/mcp-datasource/internal/rpc"
)

// NewListFilesTool walks a directory (default ".") and reports every file
// path relative to it.
func NewListFilesTool() Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name:        "list_files",
			Description: "List files in a directory",
			InputSchema: schema(map[string]any{
				"directory": map[string]any{"type": "string"},
			}),
		},
		Handle: func(_ context.Context, args map[string]any) (any, error) {
			dir, ok := stringArg(args, "directory")
			if !ok || dir == "" {
				dir = "."
			}
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return nil, fmt.Errorf("tools: list_files: directory does not exist: %s", dir)
			}

			var files []string
			err = filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if fi.IsDir() {
					return nil
				}
				rel, err := filepath.Rel(dir, path)
				if err != nil {
					return err
				}
				files = append(files, rel)
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("tools: list_files: %w", err)
			}

			return map[string]any{"files": files}, nil
		},
	}
}
