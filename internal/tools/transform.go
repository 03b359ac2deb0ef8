package tools

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// TransformSpec mirrors the shape transform_data/export_data accept:
// select/rename/sort/groupby+aggregations/offset/limit applied in that
// order. There is deliberately no general filter-expression support (the
// original's pandas `query()` string has no safe Go equivalent without
// embedding an expression evaluator this project doesn't carry); callers
// needing predicate filtering use search_users or query_data instead.
type TransformSpec struct {
	Sort         []string
	Select       []string
	Rename       map[string]string
	GroupBy      []string
	Aggregations map[string]string // column -> sum|avg|min|max|count
	Limit        int
	Offset       int
}

func parseTransformSpec(m map[string]any) *TransformSpec {
	if m == nil {
		return nil
	}
	spec := &TransformSpec{
		Sort:    stringSliceArg(m, "sort"),
		Select:  stringSliceArg(m, "select"),
		GroupBy: stringSliceArg(m, "groupby"),
	}
	if rename := mapArg(m, "rename"); rename != nil {
		spec.Rename = make(map[string]string, len(rename))
		for k, v := range rename {
			if s, ok := v.(string); ok {
				spec.Rename[k] = s
			}
		}
	}
	if agg := mapArg(m, "aggregations"); agg != nil {
		spec.Aggregations = make(map[string]string, len(agg))
		for k, v := range agg {
			if s, ok := v.(string); ok {
				spec.Aggregations[k] = s
			}
		}
	}
	if n, ok := intArg(m, "limit"); ok {
		spec.Limit = n
	}
	if n, ok := intArg(m, "offset"); ok {
		spec.Offset = n
	}
	return spec
}

// applyTransform runs rows through spec's select -> rename -> sort ->
// groupby+aggregate -> offset -> limit pipeline, returning the resulting
// rows and their column order.
func applyTransform(rows []map[string]any, spec *TransformSpec) ([]map[string]any, []string) {
	if spec == nil {
		return rows, columnsOf(rows)
	}

	if len(spec.Select) > 0 {
		rows = selectColumns(rows, spec.Select)
	}

	if len(spec.Rename) > 0 {
		rows = renameColumns(rows, spec.Rename)
	}

	if len(spec.Sort) > 0 {
		rows = sortRows(rows, spec.Sort)
	}

	if len(spec.GroupBy) > 0 && len(spec.Aggregations) > 0 {
		rows = groupAndAggregate(rows, spec.GroupBy, spec.Aggregations)
	}

	if spec.Offset > 0 && spec.Offset < len(rows) {
		rows = rows[spec.Offset:]
	} else if spec.Offset >= len(rows) {
		rows = nil
	}

	if spec.Limit > 0 && spec.Limit < len(rows) {
		rows = rows[:spec.Limit]
	}

	return rows, columnsOf(rows)
}

func columnsOf(rows []map[string]any) []string {
	if len(rows) == 0 {
		return []string{}
	}
	seen := make(map[string]bool)
	var cols []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

func selectColumns(rows []map[string]any, cols []string) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		narrowed := make(map[string]any, len(cols))
		for _, c := range cols {
			narrowed[c] = row[c]
		}
		out = append(out, narrowed)
	}
	return out
}

func renameColumns(rows []map[string]any, rename map[string]string) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		renamed := make(map[string]any, len(row))
		for k, v := range row {
			if newName, ok := rename[k]; ok {
				renamed[newName] = v
			} else {
				renamed[k] = v
			}
		}
		out = append(out, renamed)
	}
	return out
}

func sortRows(rows []map[string]any, cols []string) []map[string]any {
	out := make([]map[string]any, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		for _, col := range cols {
			if fi, okI := toFloat(out[i][col]); okI {
				if fj, okJ := toFloat(out[j][col]); okJ {
					if fi != fj {
						return fi < fj
					}
					continue
				}
			}
			vi := fmt.Sprintf("%v", out[i][col])
			vj := fmt.Sprintf("%v", out[j][col])
			if vi != vj {
				return vi < vj
			}
		}
		return false
	})
	return out
}

func groupAndAggregate(rows []map[string]any, groupBy []string, aggregations map[string]string) []map[string]any {
	type group struct {
		key    []any
		values map[string][]float64
		count  int
	}
	groups := make(map[string]*group)
	var order []string

	for _, row := range rows {
		key := make([]any, len(groupBy))
		for i, col := range groupBy {
			key[i] = row[col]
		}
		keyStr := fmt.Sprintf("%v", key)

		g, ok := groups[keyStr]
		if !ok {
			g = &group{key: key, values: make(map[string][]float64)}
			groups[keyStr] = g
			order = append(order, keyStr)
		}
		g.count++
		for col := range aggregations {
			if f, ok := toFloat(row[col]); ok {
				g.values[col] = append(g.values[col], f)
			}
		}
	}

	out := make([]map[string]any, 0, len(order))
	for _, keyStr := range order {
		g := groups[keyStr]
		row := make(map[string]any, len(groupBy)+len(aggregations))
		for i, col := range groupBy {
			row[col] = g.key[i]
		}
		for col, fn := range aggregations {
			row[col] = aggregate(fn, g.values[col], g.count)
		}
		out = append(out, row)
	}
	return out
}

func aggregate(fn string, values []float64, count int) any {
	switch fn {
	case "sum":
		return sumFloats(values)
	case "avg", "mean":
		if len(values) == 0 {
			return nil
		}
		return sumFloats(values) / float64(len(values))
	case "min":
		if len(values) == 0 {
			return nil
		}
		m := values[0]
		for _, v := range values[1:] {
			m = math.Min(m, v)
		}
		return m
	case "max":
		if len(values) == 0 {
			return nil
		}
		m := values[0]
		for _, v := range values[1:] {
			m = math.Max(m, v)
		}
		return m
	case "count":
		return count
	default:
		return nil
	}
}

func sumFloats(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
