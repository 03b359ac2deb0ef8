package predicate

import (
	"testing"

	"github.com/nullpointers/mcp-datasource/internal/query"
)

func TestEvaluateMatchesEqAcrossCaseInsensitiveKeys(t *testing.T) {
	row := map[string]any{"ID": 7, "Region": "EU"}
	dnf := query.DNF{query.Clause{
		{Field: query.FieldID, Op: query.OpEq, Value: "7"},
		{Field: query.FieldRegion, Op: query.OpEq, Value: "eu"},
	}}
	if !Evaluate(row, dnf) {
		t.Error("expected row to match AND clause")
	}
}

func TestEvaluateOrClauseMatchesIfAnyClauseMatches(t *testing.T) {
	row := map[string]any{"id": 1, "region": "NA"}
	dnf := query.DNF{
		query.Clause{{Field: query.FieldRegion, Op: query.OpEq, Value: "EU"}},
		query.Clause{{Field: query.FieldRegion, Op: query.OpEq, Value: "NA"}},
	}
	if !Evaluate(row, dnf) {
		t.Error("expected row to match second clause")
	}
}

func TestEvaluateAnyLikeSearchesCanonicalFields(t *testing.T) {
	row := map[string]any{"id": 1, "name": "User1", "email": "user1@example.com"}
	dnf := query.AnyLike("user1")
	if !Evaluate(row, dnf) {
		t.Error("expected any-like to match on name or email")
	}

	dnf2 := query.AnyLike("nonexistent")
	if Evaluate(row, dnf2) {
		t.Error("expected any-like to not match an absent substring")
	}
}

func TestEvaluateRangeConditionOnSignupDate(t *testing.T) {
	row := map[string]any{"signup_date": "2025-03-15"}
	dnf := query.DNF{query.Clause{
		{Field: query.FieldSignupDate, Op: query.OpRange, RangeValue: query.Range{Start: "2025-03-01", End: "2025-04-01"}},
	}}
	if !Evaluate(row, dnf) {
		t.Error("expected date to fall within range")
	}

	dnf2 := query.DNF{query.Clause{
		{Field: query.FieldSignupDate, Op: query.OpRange, RangeValue: query.Range{Start: "2025-05-01", End: "2025-06-01"}},
	}}
	if Evaluate(row, dnf2) {
		t.Error("expected date to fall outside range")
	}
}

func TestEvaluateMissingFieldDoesNotMatch(t *testing.T) {
	row := map[string]any{"id": 1}
	dnf := query.DNF{query.Clause{{Field: query.FieldEmail, Op: query.OpEq, Value: "a@b.com"}}}
	if Evaluate(row, dnf) {
		t.Error("expected missing field to fail the condition")
	}
}
