package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/nullpointers/mcp-datasource/internal/oracle"
	"github.com/nullpointers/mcp-datasource/internal/rpc"
	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
)

// NewAnalyzeSchemaTool describes a table (or the whole schema), then asks
// the oracle to analyze it, optionally in the context of a question.
func NewAnalyzeSchemaTool(store *sqlstore.Store, ask oracle.Oracle) Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name:        "analyze_schema",
			Description: "Schema analysis and query optimization suggestions",
			InputSchema: schema(map[string]any{
				"table_name": map[string]any{"type": "string"},
				"question":   map[string]any{"type": "string"},
			}),
		},
		Handle: func(ctx context.Context, args map[string]any) (any, error) {
			tables, err := store.ListTables(ctx)
			if err != nil {
				return map[string]any{"success": false, "error": map[string]any{"message": err.Error()}}, nil
			}

			target := tables
			if name, ok := stringArg(args, "table_name"); ok && name != "" {
				if !containsStr(tables, name) {
					return map[string]any{"success": false, "error": map[string]any{"message": fmt.Sprintf("table %q not found", name)}}, nil
				}
				target = []string{name}
			}

			schemaInfo, err := describeTables(ctx, store, target)
			if err != nil {
				return map[string]any{"success": false, "error": map[string]any{"message": err.Error()}}, nil
			}

			description := describeSchemaText(schemaInfo)
			question, _ := stringArg(args, "question")

			var prompt string
			if question != "" {
				prompt = fmt.Sprintf("Given this database schema:\n%s\n\nAnd this question: %s\n\nSuggest the relevant tables and an optimal SQL query.", description, question)
			} else {
				prompt = fmt.Sprintf("Analyze this database schema and provide insights:\n%s", description)
			}

			analysis, err := ask(ctx, prompt)
			if err != nil {
				analysis = ""
			}

			return map[string]any{
				"success":         true,
				"schema":          schemaInfo,
				"analysis":        map[string]any{"raw_analysis": analysis},
				"tables_analyzed": target,
			}, nil
		},
	}
}

// NewSuggestQueriesTool sends the current schema (and the optional use case)
// to the oracle. The oracle's answer is not used: when the call succeeds and
// the store has at least one table, the result holds a single suggestion,
// SELECT * FROM <first table> LIMIT 10; otherwise suggestions is null.
func NewSuggestQueriesTool(store *sqlstore.Store, ask oracle.Oracle) Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name:        "suggest_queries",
			Description: "Get query suggestions based on schema analysis",
			InputSchema: schema(map[string]any{
				"use_case": map[string]any{"type": "string"},
			}),
		},
		Handle: func(ctx context.Context, args map[string]any) (any, error) {
			tables, err := store.ListTables(ctx)
			if err != nil {
				return map[string]any{"success": false, "error": map[string]any{"message": err.Error()}}, nil
			}
			schemaInfo, err := describeTables(ctx, store, tables)
			if err != nil {
				return map[string]any{"success": false, "error": map[string]any{"message": err.Error()}}, nil
			}

			description := describeSchemaText(schemaInfo)
			useCase, _ := stringArg(args, "use_case")
			prompt := fmt.Sprintf("Based on this database schema:\n%s\n\nSuggest useful SQL queries", description)
			if useCase != "" {
				prompt += " for use case: " + useCase
			}

			raw, err := ask(ctx, prompt)
			var suggestions []map[string]any
			if err == nil && len(tables) > 0 {
				suggestions = []map[string]any{
					{"query": fmt.Sprintf("SELECT * FROM %s LIMIT 10", tables[0]), "description": "Basic query", "use_case": "View data"},
				}
				_ = raw
			}

			return map[string]any{"success": true, "suggestions": suggestions, "schema": schemaInfo}, nil
		},
	}
}

func describeTables(ctx context.Context, store *sqlstore.Store, tables []string) (map[string][]map[string]any, error) {
	schemaInfo := make(map[string][]map[string]any, len(tables))
	for _, table := range tables {
		cols, err := store.TableInfo(ctx, table)
		if err != nil {
			return nil, err
		}
		colInfos := make([]map[string]any, 0, len(cols))
		for _, c := range cols {
			colInfos = append(colInfos, map[string]any{
				"name": c.Name, "type": c.Type, "notnull": c.NotNull, "primary_key": c.PK,
			})
		}
		schemaInfo[table] = colInfos
	}
	return schemaInfo, nil
}

func describeSchemaText(schemaInfo map[string][]map[string]any) string {
	var b strings.Builder
	for table, cols := range schemaInfo {
		b.WriteString("Table: ")
		b.WriteString(table)
		b.WriteByte('\n')
		for _, col := range cols {
			b.WriteString(fmt.Sprintf("  - %v (%v)\n", col["name"], col["type"]))
		}
	}
	return b.String()
}

func containsStr(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
