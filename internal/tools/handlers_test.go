package tools

import (
	"context"
	"testing"

	"github.com/nullpointers/mcp-datasource/internal/sqlstore"
)

func seededStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func TestExportDataReportIncludesSummaryAndVisualization(t *testing.T) {
	store := seededStore(t)
	tool := NewExportDataTool(store)

	result, err := tool.Handle(context.Background(), map[string]any{
		"sql":    "SELECT id, region, signup_date FROM users",
		"format": "report",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	out, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}
	if _, ok := out["summary"]; !ok {
		t.Error("expected a summary field")
	}
	if _, ok := out["visualization"]; !ok {
		t.Error("expected a visualization field")
	}
}

func TestExportDataCSVFormat(t *testing.T) {
	store := seededStore(t)
	tool := NewExportDataTool(store)

	result, err := tool.Handle(context.Background(), map[string]any{
		"sql":    "SELECT id, region FROM users LIMIT 5",
		"format": "csv",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := result.(map[string]any)
	if out["content_type"] != "text/csv" {
		t.Errorf("content_type = %v", out["content_type"])
	}
	if _, ok := out["content"].(string); !ok {
		t.Error("expected a string content field")
	}
}

func TestCheckDataQualityFlagsInvalidEmails(t *testing.T) {
	store := seededStore(t)
	tool := NewCheckDataQualityTool(store)

	rows := []any{
		map[string]any{"id": 1, "email": "not-an-email"},
		map[string]any{"id": 2, "email": "user2@example.com"},
	}
	result, err := tool.Handle(context.Background(), map[string]any{"rows": rows})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := result.(map[string]any)
	checks := out["checks"].(map[string]any)
	inconsistencies := checks["inconsistencies"].([]map[string]any)
	found := false
	for _, inc := range inconsistencies {
		if inc["type"] == "invalid_format" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an invalid_format inconsistency, got %+v", inconsistencies)
	}
}

func TestTransformDataSortsAndLimits(t *testing.T) {
	store := seededStore(t)
	tool := NewTransformDataTool(store)

	result, err := tool.Handle(context.Background(), map[string]any{
		"sql": "SELECT id, region FROM users",
		"transform_spec": map[string]any{
			"sort":  []any{"id"},
			"limit": float64(3),
		},
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := result.(map[string]any)
	rows := out["rows"].([]map[string]any)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, want := range []float64{1, 2, 3} {
		if got, _ := toFloat(rows[i]["id"]); got != want {
			t.Errorf("rows[%d].id = %v, want %v", i, rows[i]["id"], want)
		}
	}
}

func TestIntegrateDataUnionsSources(t *testing.T) {
	tool := NewIntegrateDataTool()
	result, err := tool.Handle(context.Background(), map[string]any{
		"sources": []any{
			[]any{map[string]any{"id": 1.0, "name": "A"}},
			[]any{map[string]any{"id": 2.0, "name": "B"}},
		},
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := result.(map[string]any)
	rows := out["rows"].([]map[string]any)
	if len(rows) != 2 {
		t.Fatalf("expected 2 merged rows, got %d", len(rows))
	}
}

func TestIntegrateDataAlignsColumnsAcrossSources(t *testing.T) {
	tool := NewIntegrateDataTool()
	result, err := tool.Handle(context.Background(), map[string]any{
		"sources": []any{
			[]any{map[string]any{"id": 1.0, "name": "A"}},
			[]any{map[string]any{"id": 2.0, "region": "EU"}},
		},
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := result.(map[string]any)
	rows := out["rows"].([]map[string]any)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		for _, col := range []string{"id", "name", "region"} {
			if _, ok := row[col]; !ok {
				t.Errorf("row %+v missing union column %q", row, col)
			}
		}
	}
	if rows[0]["region"] != "" {
		t.Errorf("expected missing region to be filled with \"\", got %v", rows[0]["region"])
	}
	if rows[1]["name"] != "" {
		t.Errorf("expected missing name to be filled with \"\", got %v", rows[1]["name"])
	}
}

func TestIntegrateDataMergeStrategyKeepsLastRow(t *testing.T) {
	tool := NewIntegrateDataTool()
	result, err := tool.Handle(context.Background(), map[string]any{
		"sources": []any{
			[]any{map[string]any{"id": 1.0, "name": "first"}},
			[]any{map[string]any{"id": 1.0, "name": "second"}},
		},
		"deduplicate_on":    []any{"id"},
		"conflict_strategy": "merge",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := result.(map[string]any)
	rows := out["rows"].([]map[string]any)
	if len(rows) != 1 {
		t.Fatalf("expected 1 deduped row, got %d", len(rows))
	}
	if rows[0]["name"] != "second" {
		t.Errorf("expected conflict_strategy=merge to keep the later row, got %+v", rows[0])
	}
}

func TestIntegrateDataPreferFirstKeepsFirstRow(t *testing.T) {
	tool := NewIntegrateDataTool()
	result, err := tool.Handle(context.Background(), map[string]any{
		"sources": []any{
			[]any{map[string]any{"id": 1.0, "name": "first"}},
			[]any{map[string]any{"id": 1.0, "name": "second"}},
		},
		"deduplicate_on":    []any{"id"},
		"conflict_strategy": "prefer_first",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := result.(map[string]any)
	rows := out["rows"].([]map[string]any)
	if len(rows) != 1 {
		t.Fatalf("expected 1 deduped row, got %d", len(rows))
	}
	if rows[0]["name"] != "first" {
		t.Errorf("expected conflict_strategy=prefer_first to keep the first row, got %+v", rows[0])
	}
}
