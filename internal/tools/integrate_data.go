package tools

import (
	"context"
	"fmt"

	"github.com/nullpointers/mcp-datasource/internal/rpc"
)

// NewIntegrateDataTool unions the column sets of two or more row sets,
// concatenates them, and optionally deduplicates on a key.
func NewIntegrateDataTool() Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name: "integrate_data",
			Description: "Combine data from multiple sources with automatic schema alignment, conflict resolution, " +
				"and deduplication",
			InputSchema: schema(map[string]any{
				"sources":            map[string]any{"type": "array", "items": map[string]any{"type": "array", "items": map[string]any{"type": "object"}}},
				"join_on":            map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"deduplicate_on":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"conflict_strategy":  map[string]any{"type": "string", "enum": []string{"prefer_first", "prefer_last", "merge"}},
			}, "sources"),
		},
		Handle: func(_ context.Context, args map[string]any) (any, error) {
			rawSources, ok := args["sources"].([]any)
			if !ok || len(rawSources) < 2 {
				return nil, fmt.Errorf("tools: integrate_data: at least two sources are required")
			}

			var combined []map[string]any
			for _, rawSrc := range rawSources {
				list, ok := rawSrc.([]any)
				if !ok {
					continue
				}
				for _, item := range list {
					if m, ok := item.(map[string]any); ok {
						combined = append(combined, m)
					}
				}
			}

			combined = alignColumns(combined)

			dedupOn := stringSliceArg(args, "deduplicate_on")
			strategy, _ := stringArg(args, "conflict_strategy")
			if strategy == "" {
				strategy = "prefer_first"
			}

			if len(dedupOn) > 0 {
				combined = deduplicateOn(combined, dedupOn, strategy)
			}

			return map[string]any{"success": true, "rows": combined}, nil
		},
	}
}

// alignColumns reindexes every row onto the union of all rows' columns,
// filling any column absent from a given row with "" — the same schema
// alignment a pandas reindex + fillna("") performs.
func alignColumns(rows []map[string]any) []map[string]any {
	if len(rows) == 0 {
		return rows
	}

	var allColumns []string
	seenColumn := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			if !seenColumn[col] {
				seenColumn[col] = true
				allColumns = append(allColumns, col)
			}
		}
	}

	aligned := make([]map[string]any, len(rows))
	for i, row := range rows {
		out := make(map[string]any, len(allColumns))
		for _, col := range allColumns {
			if v, ok := row[col]; ok {
				out[col] = v
			} else {
				out[col] = ""
			}
		}
		aligned[i] = out
	}
	return aligned
}

func deduplicateOn(rows []map[string]any, keys []string, strategy string) []map[string]any {
	// Any strategy other than "prefer_first" keeps the later row, matching
	// the original's `keep = "first" if strategy == "prefer_first" else "last"`.
	keepLast := strategy != "prefer_first"

	seen := make(map[string]int)
	var out []map[string]any

	for _, row := range rows {
		key := keyOf(row, keys)
		if idx, ok := seen[key]; ok {
			if keepLast {
				out[idx] = row
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, row)
	}
	return out
}

func keyOf(row map[string]any, keys []string) string {
	var key string
	for _, k := range keys {
		key += fmt.Sprintf("%v|", row[k])
	}
	return key
}
