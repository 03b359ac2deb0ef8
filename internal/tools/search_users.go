package tools

import (
	"context"
	"fmt"

	"github.com/nullpointers/mcp-datasource/internal/rpc"
	"github.com/nullpointers/mcp-datasource/internal/search"
)

// NewSearchUsersTool runs a unified, source-tagged search for user records
// across SQL, REST, and file sources.
func NewSearchUsersTool(searcher *search.Searcher) Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name:        "search_users",
			Description: "Unified search across SQL, REST API, and files for user data with AND/OR filtering",
			InputSchema: schema(map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query supporting id, name, email, region, signup_date with AND/OR operators",
				},
			}, "query"),
		},
		Handle: func(ctx context.Context, args map[string]any) (any, error) {
			q, ok := stringArg(args, "query")
			if !ok || q == "" {
				return nil, fmt.Errorf("tools: search_users: `query` is required")
			}
			rows, err := searcher.Search(ctx, q)
			if err != nil {
				return map[string]any{"success": false, "error": map[string]any{"message": err.Error()}}, nil
			}
			search.SortByID(rows)
			return map[string]any{"success": true, "rows": rows, "count": len(rows)}, nil
		},
	}
}
