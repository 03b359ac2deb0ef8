package search

import "testing"

func TestDedupeMergesByEmail(t *testing.T) {
	rows := []Row{
		{"id": 1, "name": "Alice", "email": "Alice@Example.com", "region": "EU", "source": "sql"},
		{"id": 1, "name": "Alice", "email": "alice@example.com", "region": "", "signup_date": "2025-01-22", "source": "api"},
	}
	out := dedupe(rows)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged row, got %d: %+v", len(out), out)
	}
	row := out[0]
	if row["region"] != "EU" {
		t.Errorf("region = %v, want EU (first-row-wins)", row["region"])
	}
	if row["signup_date"] != "2025-01-22" {
		t.Errorf("signup_date = %v, want filled in from second row", row["signup_date"])
	}
	if row["sources"] != "sql, api" {
		t.Errorf("sources = %v, want %q", row["sources"], "sql, api")
	}
}

func TestDedupeFallsBackToNameAndIDWithoutEmail(t *testing.T) {
	rows := []Row{
		{"id": 7, "name": "Bob", "source": "file:users.csv"},
		{"id": 7, "name": "Bob", "region": "NA", "source": "file:users.csv"},
	}
	out := dedupe(rows)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged row, got %d", len(out))
	}
	if out[0]["region"] != "NA" {
		t.Errorf("region = %v, want NA", out[0]["region"])
	}
}

func TestDedupeKeepsDistinctUsersSeparate(t *testing.T) {
	rows := []Row{
		{"id": 1, "name": "Alice", "email": "alice@example.com", "source": "sql"},
		{"id": 2, "name": "Carol", "email": "carol@example.com", "source": "sql"},
	}
	out := dedupe(rows)
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
}

func TestSortByIDOrdersNumerically(t *testing.T) {
	rows := []Row{{"id": 3}, {"id": 1}, {"id": 2}}
	SortByID(rows)
	for i, want := range []int{1, 2, 3} {
		if rows[i]["id"] != want {
			t.Errorf("rows[%d][id] = %v, want %d", i, rows[i]["id"], want)
		}
	}
}
