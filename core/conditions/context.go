// Package conditions compiles an AnalyticsFilter into an ordered list of
// conjunctive SQL condition fragments over the budget execution fact table.
// The compiler is pure: no I/O, and identical (filter, context) inputs
// always yield identical fragment lists.
package conditions

import "budget-analytics/core/types"

// Default table aliases used when a BuildContext does not override them.
const (
	DefaultFactAlias   = "li"
	DefaultEntityAlias = "e"
	DefaultUatAlias    = "u"
)

// BuildContext declares which joins the surrounding query performs and the
// table aliases it uses. Entity- and UAT-scoped filter fields only compile
// when the corresponding join flag is set; otherwise they are silently
// dropped and the caller is responsible for requesting the join.
type BuildContext struct {
	// HasEntityJoin is true when the query joins the entity table
	HasEntityJoin bool

	// HasUatJoin is true when the query joins the UAT table
	HasUatJoin bool

	// FactAlias is the fact table alias (default "li")
	FactAlias string

	// EntityAlias is the entity table alias (default "e")
	EntityAlias string

	// UatAlias is the UAT table alias (default "u")
	UatAlias string
}

// NewBuildContext returns a context with default aliases and no joins
func NewBuildContext() BuildContext {
	return BuildContext{
		FactAlias:   DefaultFactAlias,
		EntityAlias: DefaultEntityAlias,
		UatAlias:    DefaultUatAlias,
	}
}

// WithJoins returns a copy of the context with the join flags set
func (c BuildContext) WithJoins(entity, uat bool) BuildContext {
	c.HasEntityJoin = entity
	c.HasUatJoin = uat
	return c
}

func (c BuildContext) factAlias() string {
	if c.FactAlias == "" {
		return DefaultFactAlias
	}
	return c.FactAlias
}

func (c BuildContext) entityAlias() string {
	if c.EntityAlias == "" {
		return DefaultEntityAlias
	}
	return c.EntityAlias
}

func (c BuildContext) uatAlias() string {
	if c.UatAlias == "" {
		return DefaultUatAlias
	}
	return c.UatAlias
}

// AmountColumn returns the fact-table amount column for a reporting
// frequency. The condition compiler and the aggregation queries share this
// rule so item-level and aggregate-level filtering stay consistent.
func AmountColumn(freq types.Frequency) string {
	switch freq {
	case types.FrequencyMonth:
		return "monthly_amount"
	case types.FrequencyQuarter:
		return "quarterly_amount"
	default:
		return "ytd_amount"
	}
}
