package query

import (
	"testing"
	"time"
)

func TestParseIsTotalForArbitraryInput(t *testing.T) {
	inputs := []string{"", "   ", "???", "!!!@@@", "region EU and signup_date 2025-01-22"}
	for _, in := range inputs {
		dnf := Parse(in)
		if len(dnf) == 0 {
			t.Errorf("Parse(%q) returned empty DNF", in)
		}
		for _, clause := range dnf {
			if len(clause) == 0 {
				t.Errorf("Parse(%q) produced an empty clause", in)
			}
		}
	}
}

func TestParseEmail(t *testing.T) {
	dnf := Parse("email apiuser21@example.com")
	want := DNF{{{Field: FieldEmail, Op: OpEq, Value: "apiuser21@example.com"}}}
	assertDNFEqual(t, dnf, want)
}

func TestParseAndAcrossFields(t *testing.T) {
	dnf := Parse("region EU and signup_date 2025-01-22")
	if len(dnf) != 1 || len(dnf[0]) != 2 {
		t.Fatalf("expected one clause with two conditions, got %+v", dnf)
	}
}

func TestParseOrAcrossFields(t *testing.T) {
	dnf := Parse("region EU or region NA")
	if len(dnf) != 2 {
		t.Fatalf("expected two clauses, got %+v", dnf)
	}
}

func TestParseLastMonthShortcut(t *testing.T) {
	fixed := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	old := Now
	Now = func() time.Time { return fixed }
	defer func() { Now = old }()

	dnf := Parse("signed up last month and region NA")
	if len(dnf) != 1 || len(dnf[0]) != 2 {
		t.Fatalf("expected one clause with two conditions, got %+v", dnf)
	}
	rangeCond := dnf[0][0]
	if rangeCond.Op != OpRange || rangeCond.RangeValue.Start != "2026-01-01" || rangeCond.RangeValue.End != "2026-02-01" {
		t.Errorf("unexpected range condition: %+v", rangeCond)
	}
}

func TestParseIDVariants(t *testing.T) {
	for _, q := range []string{"id 42", "id=42", "id is 42", "user id 42"} {
		dnf := Parse(q)
		if len(dnf) != 1 || len(dnf[0]) != 1 || dnf[0][0].Field != FieldID || dnf[0][0].Value != "42" {
			t.Errorf("Parse(%q) = %+v, want single id-eq-42 condition", q, dnf)
		}
	}
}

func TestParseFallbackAny(t *testing.T) {
	dnf := Parse("xyzzy plugh")
	if len(dnf) != 1 || len(dnf[0]) != 1 || dnf[0][0].Field != FieldAny || dnf[0][0].Op != OpLike {
		t.Errorf("expected fallback any-like condition, got %+v", dnf)
	}
}

func assertDNFEqual(t *testing.T, got, want DNF) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("DNF length = %d, want %d (got %+v)", len(got), len(want), got)
	}
	for i := range got {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("clause %d length mismatch: got %+v want %+v", i, got[i], want[i])
		}
		for j := range got[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("condition %d/%d mismatch: got %+v want %+v", i, j, got[i][j], want[i][j])
			}
		}
	}
}
