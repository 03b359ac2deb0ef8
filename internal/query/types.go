// Package query parses a free-form user query string into a predicate in
// disjunctive normal form (DNF): an OR of ANDs of field/operator/value
// conditions.
package query

// Field names recognised by a Condition.
const (
	FieldID              = "id"
	FieldName             = "name"
	FieldEmail            = "email"
	FieldRegion           = "region"
	FieldSignupDate       = "signup_date"
	FieldAny              = "any"
	FieldSignupDateRange  = "signup_date_range"
)

// Operators recognised by a Condition.
const (
	OpEq    = "eq"
	OpLike  = "like"
	OpRange = "range"
)

// Range is a half-open [Start, End) pair of ISO calendar dates
// ("YYYY-MM-DD").
type Range struct {
	Start string
	End   string
}

// Condition is one AND-ed leaf of the predicate: a field, an operator, and
// an operator-specific value. Exactly one of Value or RangeValue is set,
// selected by Op.
type Condition struct {
	Field      string
	Op         string
	Value      string // used by eq/like; for id-eq this is the decimal digits
	RangeValue Range  // used by range
}

// Clause is an ordered, non-empty conjunction (AND) of Conditions.
type Clause []Condition

// DNF is an ordered disjunction (OR) of Clauses.
type DNF []Clause

// AnyLike builds the single-clause fallback predicate `any like raw`.
func AnyLike(raw string) DNF {
	return DNF{Clause{{Field: FieldAny, Op: OpLike, Value: raw}}}
}
