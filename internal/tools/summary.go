package tools

import (
	"math"
	"sort"
)

// columnStats holds basic numeric statistics for one column.
type columnStats struct {
	Mean, Std, Min, Max, Median float64
}

// generateSummary builds a lightweight profile of rows: row/column counts,
// per-column missing-value counts, and mean/std/min/max/median for numeric
// columns. It mirrors the shape of the pandas-based summary without
// depending on a dataframe library.
func generateSummary(rows []map[string]any) map[string]any {
	columns := columnsOf(rows)
	summary := map[string]any{
		"total_rows":    len(rows),
		"total_columns": len(columns),
		"columns":       columns,
	}
	if len(rows) == 0 {
		return summary
	}

	missing := make(map[string]int, len(columns))
	numeric := make(map[string][]float64, len(columns))

	for _, row := range rows {
		for _, col := range columns {
			v, present := row[col]
			if !present || isBlank(v) {
				missing[col]++
				continue
			}
			if f, ok := toFloat(v); ok {
				numeric[col] = append(numeric[col], f)
			}
		}
	}

	missingOut := make(map[string]any, len(missing))
	for col, count := range missing {
		missingOut[col] = map[string]any{
			"count":      count,
			"percentage": round2(float64(count) / float64(len(rows)) * 100),
		}
	}
	summary["missing_values"] = missingOut

	statsOut := make(map[string]any)
	for col, values := range numeric {
		if len(values) == 0 {
			continue
		}
		statsOut[col] = computeStats(values)
	}
	if len(statsOut) > 0 {
		summary["statistics"] = statsOut
	}

	return summary
}

func computeStats(values []float64) columnStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var variance float64
	for _, v := range sorted {
		variance += (v - mean) * (v - mean)
	}
	std := 0.0
	if len(sorted) > 1 {
		std = math.Sqrt(variance / float64(len(sorted)-1))
	}

	return columnStats{
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median(sorted),
	}
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == "" || s == "nan"
	}
	return false
}
