// Package period parses reporting-period strings into structured
// year/sub-period tuples. Parsers never fail hard: an unparsable input
// yields a negative result, and batch parsers drop invalid entries while
// preserving input order.
package period

import "strconv"

// Month is a parsed YYYY-MM period
type Month struct {
	Year  int
	Month int
}

// Quarter is a parsed YYYY-QN period
type Quarter struct {
	Year    int
	Quarter int
}

// ParseMonth parses a "YYYY-MM" period string. "YYYY" and "YYYY-QN" inputs
// do not match.
func ParseMonth(s string) (Month, bool) {
	if len(s) != 7 || s[4] != '-' {
		return Month{}, false
	}
	year, ok := parseDigits(s[:4])
	if !ok {
		return Month{}, false
	}
	month, ok := parseDigits(s[5:])
	if !ok || month < 1 || month > 12 {
		return Month{}, false
	}
	return Month{Year: year, Month: month}, true
}

// ParseQuarter parses a "YYYY-QN" period string with N in 1..4. "YYYY" and
// "YYYY-MM" inputs do not match.
func ParseQuarter(s string) (Quarter, bool) {
	if len(s) != 7 || s[4] != '-' || (s[5] != 'Q' && s[5] != 'q') {
		return Quarter{}, false
	}
	year, ok := parseDigits(s[:4])
	if !ok {
		return Quarter{}, false
	}
	q := int(s[6] - '0')
	if q < 1 || q > 4 {
		return Quarter{}, false
	}
	return Quarter{Year: year, Quarter: q}, true
}

// ParseYear extracts the 4-digit year prefix from any of the three period
// formats ("2024", "2024-06", "2024-Q2"). Non-numeric prefixes do not match.
func ParseYear(s string) (int, bool) {
	if len(s) < 4 {
		return 0, false
	}
	if len(s) > 4 && s[4] != '-' {
		return 0, false
	}
	return parseDigits(s[:4])
}

// ParseMonths parses a batch of month periods, dropping unparsable entries
// and preserving input order.
func ParseMonths(values []string) []Month {
	out := make([]Month, 0, len(values))
	for _, v := range values {
		if m, ok := ParseMonth(v); ok {
			out = append(out, m)
		}
	}
	return out
}

// ParseQuarters parses a batch of quarter periods, dropping unparsable
// entries and preserving input order.
func ParseQuarters(values []string) []Quarter {
	out := make([]Quarter, 0, len(values))
	for _, v := range values {
		if q, ok := ParseQuarter(v); ok {
			out = append(out, q)
		}
	}
	return out
}

// ParseYears parses a batch of year values, dropping unparsable entries
// and preserving input order.
func ParseYears(values []string) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		if y, ok := ParseYear(v); ok {
			out = append(out, y)
		}
	}
	return out
}

// parseDigits parses an all-digit string; any other rune fails the parse
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
