package tools

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/nullpointers/mcp-datasource/internal/rpc"
	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
	"github.com/xuri/excelize/v2"
)

// NewExportDataTool transforms and then serializes a result set to
// json/csv/xlsx, or assembles a combined "report" (data + summary).
func NewExportDataTool(store *sqlstore.Store) Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name:        "export_data",
			Description: "Export results to various formats (JSON, CSV, Excel) with summary reports",
			InputSchema: schema(map[string]any{
				"sql":             map[string]any{"type": "string"},
				"rows":            map[string]any{"type": "array"},
				"format":          map[string]any{"type": "string", "enum": []string{"json", "csv", "xlsx", "report"}},
				"filename":        map[string]any{"type": "string"},
				"include_summary": map[string]any{"type": "boolean"},
				"transform_spec":  map[string]any{"type": "object"},
			}),
		},
		Handle: func(ctx context.Context, args map[string]any) (any, error) {
			sqlText, hasSQL := stringArg(args, "sql")
			rows := rowsArg(args, "rows")
			if !hasSQL && rows == nil {
				return nil, fmt.Errorf("tools: export_data: either `sql` or `rows` must be provided")
			}
			if hasSQL {
				res, err := store.Execute(ctx, sqlText, nil)
				if err != nil {
					return map[string]any{"success": false, "error": err.Error()}, nil
				}
				rows = res.Rows
			}

			spec := parseTransformSpec(mapArg(args, "transform_spec"))
			rows, columns := applyTransform(rows, spec)

			format, _ := stringArg(args, "format")
			if format == "" {
				format = "csv"
			}
			filename, _ := stringArg(args, "filename")
			if filename == "" {
				filename = "export." + format
			}
			includeSummary := boolArg(args, "include_summary", false)

			switch format {
			case "report":
				return map[string]any{
					"data":          rows,
					"summary":       generateSummary(rows),
					"visualization": generateVisualization(rows),
				}, nil

			case "json":
				out := map[string]any{"rows": rows}
				if includeSummary {
					out["summary"] = generateSummary(rows)
				}
				return out, nil

			case "csv":
				content, err := encodeCSV(columns, rows)
				if err != nil {
					return map[string]any{"success": false, "error": err.Error()}, nil
				}
				return map[string]any{"filename": filename, "content_type": "text/csv", "content": content}, nil

			case "xlsx":
				content, err := encodeXLSX(columns, rows)
				if err != nil {
					return map[string]any{"success": false, "error": err.Error()}, nil
				}
				return map[string]any{
					"filename":     filename,
					"content_type": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
					"content_base64": content,
				}, nil

			default:
				return map[string]any{"success": false, "error": "unsupported format: " + format}, nil
			}
		},
	}
}

func encodeCSV(columns []string, rows []map[string]any) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("tools: write csv header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = fmt.Sprintf("%v", row[col])
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("tools: write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func encodeXLSX(columns []string, rows []map[string]any) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Data"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", err
		}
		f.SetCellValue(sheet, cell, col)
	}
	for r, row := range rows {
		for c, col := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return "", err
			}
			f.SetCellValue(sheet, cell, row[col])
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("tools: encode xlsx: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
