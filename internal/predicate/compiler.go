// Package predicate lowers a query.DNF predicate into a parameterised SQL
// WHERE clause (Compile) and evaluates the same predicate directly against
// an in-memory row (Evaluate), so both routes agree by construction.
package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nullpointers/mcp-datasource/internal/query"
)

// Compiled is a parameterised WHERE fragment ready for parameter binding.
// Where must only ever be executed with Args bound positionally — it is
// never safe to interpolate a value into Where directly.
type Compiled struct {
	Where string
	Args  []any
}

// Compile lowers dnf into a Compiled WHERE clause. An empty DNF compiles to
// "1=1" with no arguments.
func Compile(dnf query.DNF) Compiled {
	var orParts []string
	var args []any

	for _, clause := range dnf {
		var andParts []string
		for _, cond := range clause {
			frag, condArgs := compileCondition(cond)
			andParts = append(andParts, frag)
			args = append(args, condArgs...)
		}
		orParts = append(orParts, "("+strings.Join(andParts, " AND ")+")")
	}

	if len(orParts) == 0 {
		return Compiled{Where: "1=1"}
	}
	return Compiled{Where: strings.Join(orParts, " OR "), Args: args}
}

func compileCondition(c query.Condition) (string, []any) {
	switch {
	case c.Op == query.OpRange && c.Field == query.FieldSignupDate:
		return "(signup_date >= ? AND signup_date < ?)", []any{c.RangeValue.Start, c.RangeValue.End}

	case c.Field == query.FieldAny && c.Op == query.OpLike:
		like := "%" + c.Value + "%"
		frag := "(" +
			"CAST(id AS TEXT) LIKE ? OR " +
			"lower(name) LIKE lower(?) OR " +
			"lower(email) LIKE lower(?) OR " +
			"lower(region) LIKE lower(?) OR " +
			"signup_date LIKE ?" +
			")"
		return frag, []any{like, like, like, like, like}

	case c.Op == query.OpEq && c.Field == query.FieldID:
		id, _ := strconv.Atoi(c.Value)
		return "id = ?", []any{id}

	case c.Op == query.OpEq:
		return fmt.Sprintf("lower(%s) = lower(?)", c.Field), []any{c.Value}

	case c.Op == query.OpLike:
		return fmt.Sprintf("lower(%s) LIKE lower(?)", c.Field), []any{"%" + c.Value + "%"}

	default:
		// Every Condition the parser emits matches one of the cases above;
		// this is unreachable for well-formed DNF.
		return "1=1", nil
	}
}
