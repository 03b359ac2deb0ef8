package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nullpointers/mcp-datasource/internal/query"
)

// canonicalFields is the field set `any like` searches across, in the order
// the original string-match fallback checked them.
var canonicalFields = []string{"id", "name", "email", "region", "signup_date"}

// Evaluate reports whether row (a string-keyed map with arbitrary-cased
// keys) satisfies dnf, using the same field/operator semantics Compile
// lowers to SQL. A clause matches when every condition matches; the
// predicate matches when any clause matches.
func Evaluate(row map[string]any, dnf query.DNF) bool {
	lower := lowerKeys(row)
	for _, clause := range dnf {
		if matchesClause(lower, clause) {
			return true
		}
	}
	return false
}

func lowerKeys(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[strings.ToLower(k)] = v
	}
	return out
}

func matchesClause(row map[string]any, clause query.Clause) bool {
	for _, cond := range clause {
		if !matchesCondition(row, cond) {
			return false
		}
	}
	return true
}

func matchesCondition(row map[string]any, c query.Condition) bool {
	if c.Op == query.OpRange && c.Field == query.FieldSignupDate {
		v, ok := row["signup_date"]
		if !ok || v == nil {
			return false
		}
		s := fmt.Sprintf("%v", v)
		return s >= c.RangeValue.Start && s < c.RangeValue.End
	}

	if c.Field == query.FieldAny && c.Op == query.OpLike {
		needle := strings.ToLower(c.Value)
		for _, field := range canonicalFields {
			v, ok := row[field]
			if !ok || v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(fmt.Sprintf("%v", v)), needle) {
				return true
			}
		}
		return false
	}

	v, ok := row[c.Field]
	if !ok || v == nil {
		return false
	}

	switch c.Op {
	case query.OpEq:
		if c.Field == query.FieldID {
			wantID, err := strconv.Atoi(c.Value)
			if err != nil {
				return false
			}
			gotID, ok := toInt(v)
			return ok && gotID == wantID
		}
		return strings.EqualFold(fmt.Sprintf("%v", v), c.Value)

	case query.OpLike:
		return strings.Contains(strings.ToLower(fmt.Sprintf("%v", v)), strings.ToLower(c.Value))

	default:
		return false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}
