package tools

import (
	"context"
	"fmt"

	"github.com/nullpointers/mcp-datasource/internal/oracle"
	"github.com/nullpointers/mcp-datasource/internal/rpc"
	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
)

// NewQueryDataTool converts a natural-language question into SQL via the
// oracle boundary, executes it against store, and reports both the
// generated SQL and the execution result.
func NewQueryDataTool(store *sqlstore.Store, ask oracle.Oracle) Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name: "query_data",
			Description: "Execute queries using natural language or SQL. Converts the question to SQL using an oracle " +
				"and runs it against the SQLite store.",
			InputSchema: schema(map[string]any{
				"question": map[string]any{"type": "string", "description": "Natural language question or SQL query"},
				"sources":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Accepted but not used; queries run against the SQLite store only"},
			}, "question"),
		},
		Handle: func(ctx context.Context, args map[string]any) (any, error) {
			question, ok := stringArg(args, "question")
			if !ok || question == "" {
				return nil, fmt.Errorf("tools: query_data: `question` is required")
			}

			prompt := fmt.Sprintf(
				"Convert this question into SQL. Do not add a LIMIT clause unless explicitly requested.\nQuestion: %s\nReturn only SQL.",
				question,
			)

			sql, err := ask(ctx, prompt)
			if err != nil {
				return map[string]any{
					"success": false,
					"error":   map[string]any{"message": "oracle generation failed", "details": err.Error()},
				}, nil
			}
			if sql == "" {
				return map[string]any{"success": false, "error": map[string]any{"message": "oracle returned empty SQL"}}, nil
			}

			result, execErr := store.Execute(ctx, sql, nil)
			execution := map[string]any{"success": execErr == nil}
			if execErr != nil {
				execution["error"] = execErr.Error()
			} else {
				execution["columns"] = result.Columns
				execution["rows"] = result.Rows
			}

			return map[string]any{
				"success":       execErr == nil,
				"question":      question,
				"generated_sql": sql,
				"execution":     execution,
			}, nil
		},
	}
}
