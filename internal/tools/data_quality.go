package tools

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nullpointers/mcp-datasource/internal/rpc"
	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
)

var emailShapeRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NewCheckDataQualityTool profiles a result set for missing values,
// duplicate rows, numeric outliers (IQR fence), and invalid email formats.
// Date columns are not format-checked.
func NewCheckDataQualityTool(store *sqlstore.Store) Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name:        "check_data_quality",
			Description: "Detect anomalies, missing values, inconsistencies in data",
			InputSchema: schema(map[string]any{
				"sql":        map[string]any{"type": "string"},
				"table_name": map[string]any{"type": "string"},
				"rows":       map[string]any{"type": "array"},
			}),
		},
		Handle: func(ctx context.Context, args map[string]any) (any, error) {
			rows, err := resolveQualityRows(ctx, store, args)
			if err != nil {
				return map[string]any{"success": false, "error": map[string]any{"message": err.Error()}}, nil
			}
			if len(rows) == 0 {
				return map[string]any{
					"success": true,
					"checks": map[string]any{
						"missing_values": map[string]any{}, "anomalies": []any{}, "inconsistencies": []any{},
						"summary": "No data to check",
					},
				}, nil
			}

			checks := map[string]any{}
			summary := generateSummary(rows)
			checks["missing_values"] = summary["missing_values"]

			columns := columnsOf(rows)
			numeric := make(map[string][]float64)
			for _, row := range rows {
				for _, col := range columns {
					if f, ok := toFloat(row[col]); ok {
						numeric[col] = append(numeric[col], f)
					}
				}
			}

			var anomalies []map[string]any
			for col, values := range numeric {
				if len(values) < 4 {
					continue
				}
				lower, upper := iqrFence(values)
				var outliers []float64
				for _, v := range values {
					if v < lower || v > upper {
						outliers = append(outliers, v)
					}
				}
				if len(outliers) > 0 {
					anomalies = append(anomalies, map[string]any{
						"column": col, "type": "outlier", "count": len(outliers),
						"threshold": map[string]any{"lower": lower, "upper": upper},
					})
				}
			}
			sort.Slice(anomalies, func(i, j int) bool { return anomalies[i]["column"].(string) < anomalies[j]["column"].(string) })
			checks["anomalies"] = anomalies

			var inconsistencies []map[string]any
			if dupCount := countDuplicateRows(rows); dupCount > 0 {
				inconsistencies = append(inconsistencies, map[string]any{
					"type": "duplicate_rows", "count": dupCount,
					"description": fmt.Sprintf("%d duplicate rows found", dupCount),
				})
			}
			for _, col := range columns {
				lower := strings.ToLower(col)
				if strings.Contains(lower, "email") {
					if invalid := countInvalidEmails(rows, col); invalid > 0 {
						inconsistencies = append(inconsistencies, map[string]any{
							"type": "invalid_format", "column": col, "count": invalid,
							"description": fmt.Sprintf("invalid email format in %d rows", invalid),
						})
					}
				}
			}
			checks["inconsistencies"] = inconsistencies

			totalIssues := len(summary["missing_values"].(map[string]any)) + len(anomalies) + len(inconsistencies)
			qualityScore := 100 - totalIssues*10
			if qualityScore < 0 {
				qualityScore = 0
			}
			checks["summary"] = map[string]any{
				"total_rows": len(rows), "total_columns": len(columns),
				"total_issues": totalIssues, "quality_score": qualityScore,
			}

			sample := rows
			if len(sample) > 5 {
				sample = sample[:5]
			}
			return map[string]any{"success": true, "checks": checks, "data_sample": sample}, nil
		},
	}
}

func resolveQualityRows(ctx context.Context, store *sqlstore.Store, args map[string]any) ([]map[string]any, error) {
	if sqlText, ok := stringArg(args, "sql"); ok && sqlText != "" {
		res, err := store.Execute(ctx, sqlText, nil)
		if err != nil {
			return nil, err
		}
		return res.Rows, nil
	}
	if table, ok := stringArg(args, "table_name"); ok && table != "" {
		res, err := store.Execute(ctx, fmt.Sprintf("SELECT * FROM %s", table), nil)
		if err != nil {
			return nil, fmt.Errorf("table %q not found", table)
		}
		return res.Rows, nil
	}
	if rows := rowsArg(args, "rows"); rows != nil {
		return rows, nil
	}
	return nil, fmt.Errorf("either sql, table_name, or rows must be provided")
}

func iqrFence(values []float64) (float64, float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := percentile(sorted, 0.25)
	q3 := percentile(sorted, 0.75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := p * float64(len(sorted)-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func countDuplicateRows(rows []map[string]any) int {
	seen := make(map[string]int)
	for _, row := range rows {
		seen[rowFingerprint(row)]++
	}
	count := 0
	for _, n := range seen {
		if n > 1 {
			count += n - 1
		}
	}
	return count
}

func rowFingerprint(row map[string]any) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fmt.Sprintf("%v", row[k]))
		b.WriteByte('|')
	}
	return b.String()
}

func countInvalidEmails(rows []map[string]any, col string) int {
	count := 0
	for _, row := range rows {
		v, ok := row[col]
		if !ok || isBlank(v) {
			continue
		}
		if !emailShapeRe.MatchString(fmt.Sprintf("%v", v)) {
			count++
		}
	}
	return count
}
