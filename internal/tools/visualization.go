package tools

import "sort"

// generateVisualization builds chart-ready buckets from rows: up to three bar
// charts over the first string-valued columns' top-10 value counts, plus one
// bar chart of a numeric column's mean grouped by the first string column.
// It mirrors the shape of the pandas-based visualization data without
// depending on a dataframe library.
func generateVisualization(rows []map[string]any) map[string]any {
	charts := []map[string]any{}
	if len(rows) == 0 {
		return map[string]any{"charts": charts}
	}

	columns := columnsOf(rows)
	stringCols := make([]string, 0, len(columns))
	numericCols := make([]string, 0, len(columns))
	for _, col := range columns {
		isNumeric, isString := false, false
		for _, row := range rows {
			v, ok := row[col]
			if !ok || isBlank(v) {
				continue
			}
			if _, ok := toFloat(v); ok {
				isNumeric = true
			} else if _, ok := v.(string); ok {
				isString = true
			}
		}
		if isString && !isNumeric {
			stringCols = append(stringCols, col)
		} else if isNumeric {
			numericCols = append(numericCols, col)
		}
	}

	for i, col := range stringCols {
		if i >= 3 {
			break
		}
		labels, values := topValueCounts(rows, col, 10)
		charts = append(charts, map[string]any{
			"type":  "bar",
			"title": "Distribution of " + col,
			"data":  map[string]any{"labels": labels, "values": values},
		})
	}

	if len(numericCols) > 0 && len(stringCols) > 0 {
		numCol, catCol := numericCols[0], stringCols[0]
		labels, means := meanByGroup(rows, catCol, numCol, 10)
		charts = append(charts, map[string]any{
			"type":  "bar",
			"title": numCol + " by " + catCol,
			"data":  map[string]any{"labels": labels, "values": means},
		})
	}

	return map[string]any{"charts": charts}
}

func topValueCounts(rows []map[string]any, col string, limit int) ([]string, []int) {
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		v, ok := row[col]
		if !ok || isBlank(v) {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if _, seen := counts[s]; !seen {
			order = append(order, s)
		}
		counts[s]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > limit {
		order = order[:limit]
	}
	labels := make([]string, len(order))
	values := make([]int, len(order))
	for i, k := range order {
		labels[i] = k
		values[i] = counts[k]
	}
	return labels, values
}

func meanByGroup(rows []map[string]any, groupCol, valueCol string, limit int) ([]string, []float64) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		gv, ok := row[groupCol]
		if !ok || isBlank(gv) {
			continue
		}
		group, ok := gv.(string)
		if !ok {
			continue
		}
		fv, ok := toFloat(row[valueCol])
		if !ok {
			continue
		}
		if _, seen := sums[group]; !seen {
			order = append(order, group)
		}
		sums[group] += fv
		counts[group]++
	}
	if len(order) > limit {
		order = order[:limit]
	}
	labels := make([]string, len(order))
	means := make([]float64, len(order))
	for i, group := range order {
		labels[i] = group
		means[i] = round2(sums[group] / float64(counts[group]))
	}
	return labels, means
}
