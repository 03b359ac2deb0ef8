package query

import (
	"regexp"
	"strings"
	"time"
)

var (
	punctuationRe = regexp.MustCompile(`[^a-z0-9@.\-_\s]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	orSplitRe     = regexp.MustCompile(`\s+or\s+`)
	andSplitRe    = regexp.MustCompile(`\s+and\s+`)

	emailRe      = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	idRe         = regexp.MustCompile(`\b(?:user\s+)?id\s*(?:=|is)?\s*(\d+)\b`)
	signupDateRe = regexp.MustCompile(`\b(?:signup_date|signup|signed up|date)\s*(?:=|is|on)?\s*(\d{4}-\d{2}-\d{2})\b`)
	regionRe     = regexp.MustCompile(`\b(?:region\s*)?(na|eu|apac|latam)\b`)
	nameRe       = regexp.MustCompile(`\b(?:name\s*(?:=|is)?\s*|user\s*(?:with\s+name\s+)?)([a-z0-9_]+)\b`)
)

var regionCodes = map[string]bool{"na": true, "eu": true, "apac": true, "latam": true}

// Now is overridable in tests; defaults to the real clock.
var Now = time.Now

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = punctuationRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// lastMonthRange returns the [start, end) ISO-date pair for the calendar
// month preceding the current one.
func lastMonthRange() Range {
	now := Now()
	firstThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastPrevMonth := firstThisMonth.AddDate(0, 0, -1)
	firstPrevMonth := time.Date(lastPrevMonth.Year(), lastPrevMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: firstPrevMonth.Format("2006-01-02"), End: firstThisMonth.Format("2006-01-02")}
}

// Parse tokenizes raw into a DNF predicate. Parse is total: every input,
// including the empty string, yields a non-empty DNF.
func Parse(raw string) DNF {
	q := normalize(raw)

	orParts := splitNonEmpty(orSplitRe, q)
	var dnf DNF

	for _, part := range orParts {
		andParts := splitNonEmpty(andSplitRe, part)
		var clause Clause
		for _, token := range andParts {
			if cond, ok := classify(token); ok {
				clause = append(clause, cond)
			}
		}
		if len(clause) > 0 {
			dnf = append(dnf, clause)
		}
	}

	if len(dnf) == 0 {
		return AnyLike(q)
	}
	return dnf
}

func splitNonEmpty(re *regexp.Regexp, s string) []string {
	var out []string
	for _, p := range re.Split(s, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// classify applies the ordered recognisers to one AND-token, returning the
// first match. The final fallback always matches a non-empty token.
func classify(token string) (Condition, bool) {
	if strings.Contains(token, "last month") || strings.Contains(token, "previous month") {
		return Condition{Field: FieldSignupDate, Op: OpRange, RangeValue: lastMonthRange()}, true
	}

	if m := emailRe.FindString(token); m != "" {
		return Condition{Field: FieldEmail, Op: OpEq, Value: m}, true
	}

	if m := idRe.FindStringSubmatch(token); m != nil {
		return Condition{Field: FieldID, Op: OpEq, Value: m[1]}, true
	}

	if m := signupDateRe.FindStringSubmatch(token); m != nil {
		return Condition{Field: FieldSignupDate, Op: OpEq, Value: m[1]}, true
	}

	if m := regionRe.FindStringSubmatch(token); m != nil {
		code := m[1]
		if strings.Contains(token, "region") || regionCodes[code] {
			return Condition{Field: FieldRegion, Op: OpEq, Value: strings.ToUpper(code)}, true
		}
	}

	if m := nameRe.FindStringSubmatch(token); m != nil {
		return Condition{Field: FieldName, Op: OpEq, Value: m[1]}, true
	}

	if token != "" {
		return Condition{Field: FieldAny, Op: OpLike, Value: token}, true
	}
	return Condition{}, false
}
