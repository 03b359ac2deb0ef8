package tools

import (
	"context"
	"fmt"

	"github.com/nullpointers/mcp-datasource/internal/rpc"
	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
)

// NewTransformDataTool applies select/rename/sort/groupby/offset/limit
// transforms to either a fresh SQL result set or caller-supplied rows. It
// does no row filtering and no type conversion.
func NewTransformDataTool(store *sqlstore.Store) Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name: "transform_data",
			Description: "Apply transformations to query results: select, sort, group and aggregate, " +
				"column renaming, offset and limit",
			InputSchema: schema(map[string]any{
				"sql":  map[string]any{"type": "string"},
				"rows": map[string]any{"type": "array"},
				"transform_spec": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"sort":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"select":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"rename":       map[string]any{"type": "object"},
						"groupby":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"aggregations": map[string]any{"type": "object"},
						"limit":        map[string]any{"type": "integer"},
						"offset":       map[string]any{"type": "integer"},
					},
				},
			}),
		},
		Handle: func(ctx context.Context, args map[string]any) (any, error) {
			sqlText, hasSQL := stringArg(args, "sql")
			rows := rowsArg(args, "rows")
			if !hasSQL && rows == nil {
				return nil, fmt.Errorf("tools: transform_data: either `sql` or `rows` must be provided")
			}

			if hasSQL {
				res, err := store.Execute(ctx, sqlText, nil)
				if err != nil {
					return map[string]any{"success": false, "error": err.Error()}, nil
				}
				rows = res.Rows
			}

			spec := parseTransformSpec(mapArg(args, "transform_spec"))
			outRows, columns := applyTransform(rows, spec)

			return map[string]any{"success": true, "columns": columns, "rows": outRows}, nil
		},
	}
}
