// Package conditions - Fragment rendering helpers
package conditions

import (
	"strconv"
	"strings"
)

// builder accumulates condition fragments in compile order
type builder struct {
	ctx   BuildContext
	frags []string
}

func (b *builder) add(frag string) {
	b.frags = append(b.frags, frag)
}

// quote renders a SQL string literal, doubling embedded single quotes
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteList renders a comma-separated list of string literals, preserving
// input order
func quoteList(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = quote(v)
	}
	return strings.Join(parts, ", ")
}

// numericList coerces tokens to integers, dropping blank and non-numeric
// ones while preserving the order and value of valid tokens. An empty
// result means no condition should be emitted.
func numericList(values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		parts = append(parts, strconv.FormatInt(n, 10))
	}
	return strings.Join(parts, ", ")
}

// eq emits col = 'value'
func (b *builder) eq(col, value string) {
	b.add(col + " = " + quote(value))
}

// in emits col IN ('a', 'b') when values is non-empty
func (b *builder) in(col string, values []string) {
	if len(values) == 0 {
		return
	}
	b.add(col + " IN (" + quoteList(values) + ")")
}

// inNumeric emits col IN (1, 2) from coerced tokens, skipping the fragment
// entirely when no token survives coercion
func (b *builder) inNumeric(col string, values []string) {
	if len(values) == 0 {
		return
	}
	list := numericList(values)
	if list == "" {
		return
	}
	b.add(col + " IN (" + list + ")")
}

// likeAny emits (col LIKE 'p1%' OR col LIKE 'p2%'), parenthesized as a
// single fragment
func (b *builder) likeAny(col string, prefixes []string) {
	if len(prefixes) == 0 {
		return
	}
	parts := make([]string, len(prefixes))
	for i, p := range prefixes {
		parts[i] = col + " LIKE " + quote(p+"%")
	}
	b.add("(" + strings.Join(parts, " OR ") + ")")
}

// notIn emits plain col NOT IN ('a', 'b') for directly-queried columns
func (b *builder) notIn(col string, values []string) {
	if len(values) == 0 {
		return
	}
	b.add(col + " NOT IN (" + quoteList(values) + ")")
}

// notInNumeric emits plain col NOT IN (1, 2) from coerced tokens
func (b *builder) notInNumeric(col string, values []string) {
	if len(values) == 0 {
		return
	}
	list := numericList(values)
	if list == "" {
		return
	}
	b.add(col + " NOT IN (" + list + ")")
}

// nullSafeNotIn emits (col IS NULL OR col NOT IN (...)) for columns reached
// through an optional join, so fact rows whose join did not match are not
// incorrectly excluded
func (b *builder) nullSafeNotIn(col string, values []string) {
	if len(values) == 0 {
		return
	}
	b.add("(" + col + " IS NULL OR " + col + " NOT IN (" + quoteList(values) + "))")
}

// nullSafeNotInNumeric is nullSafeNotIn over coerced numeric tokens
func (b *builder) nullSafeNotInNumeric(col string, values []string) {
	if len(values) == 0 {
		return
	}
	list := numericList(values)
	if list == "" {
		return
	}
	b.add("(" + col + " IS NULL OR " + col + " NOT IN (" + list + "))")
}

// notLikeAll emits (col NOT LIKE 'p1%' AND col NOT LIKE 'p2%')
func (b *builder) notLikeAll(col string, prefixes []string) {
	if len(prefixes) == 0 {
		return
	}
	parts := make([]string, len(prefixes))
	for i, p := range prefixes {
		parts[i] = col + " NOT LIKE " + quote(p+"%")
	}
	b.add("(" + strings.Join(parts, " AND ") + ")")
}
