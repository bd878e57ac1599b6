// Package conditions - Filter compilation
package conditions

import (
	"strconv"
	"strings"

	"budget-analytics/core/period"
	"budget-analytics/core/types"
)

// Compile turns a filter and a join-availability context into an ordered
// list of conjunctive condition fragments. Order follows a fixed category
// sequence (frequency flag, period, scalars, lists, prefixes, entity, UAT,
// amounts, exclusions) for readability; correctness does not depend on it.
func Compile(f *types.AnalyticsFilter, ctx BuildContext) []string {
	b := &builder{ctx: ctx}

	b.frequencyFlag(f)
	b.periodConditions(f)
	b.scalarConditions(f)
	b.listConditions(f)
	b.prefixConditions(f)
	b.entityConditions(f)
	b.uatConditions(f)
	b.amountConditions(f)
	b.exclusionConditions(f)

	return b.frags
}

// frequencyFlag marks quarterly and yearly rows; monthly rows carry no
// flag, and a filter without a report period constrains no row kind
func (b *builder) frequencyFlag(f *types.AnalyticsFilter) {
	if f.ReportPeriod == nil {
		return
	}
	fact := b.ctx.factAlias()
	switch f.Frequency() {
	case types.FrequencyQuarter:
		b.add(fact + ".is_quarterly = true")
	case types.FrequencyYear:
		b.add(fact + ".is_yearly = true")
	}
}

// periodConditions compiles the interval and discrete-date selections. Both
// sub-conditions are emitted independently and ANDed when both are present;
// callers populate only one in practice.
func (b *builder) periodConditions(f *types.AnalyticsFilter) {
	if f.ReportPeriod == nil || f.ReportPeriod.Selection.IsEmpty() {
		return
	}
	freq := f.Frequency()
	sel := f.ReportPeriod.Selection

	if sel.Interval != nil {
		b.intervalBound(freq, sel.Interval.Start, ">=")
		b.intervalBound(freq, sel.Interval.End, "<=")
	}
	if len(sel.Dates) > 0 {
		b.dateList(freq, sel.Dates)
	}
}

// intervalBound emits one side of the interval as a tuple comparison for
// sub-year frequencies, falling back to a year-only bound when the
// sub-period fails to parse.
func (b *builder) intervalBound(freq types.Frequency, value, op string) {
	fact := b.ctx.factAlias()
	switch freq {
	case types.FrequencyMonth:
		if m, ok := period.ParseMonth(value); ok {
			b.add("(" + fact + ".year, " + fact + ".month) " + op + " (" +
				strconv.Itoa(m.Year) + ", " + strconv.Itoa(m.Month) + ")")
			return
		}
	case types.FrequencyQuarter:
		if q, ok := period.ParseQuarter(value); ok {
			b.add("(" + fact + ".year, " + fact + ".quarter) " + op + " (" +
				strconv.Itoa(q.Year) + ", " + strconv.Itoa(q.Quarter) + ")")
			return
		}
	}
	if y, ok := period.ParseYear(value); ok {
		b.add(fact + ".year " + op + " " + strconv.Itoa(y))
	}
}

// dateList emits an OR-list of exact (year AND subperiod) matches for
// sub-year frequencies, or a single year IN (...) for YEAR. All-invalid
// inputs emit nothing.
func (b *builder) dateList(freq types.Frequency, dates []string) {
	fact := b.ctx.factAlias()
	switch freq {
	case types.FrequencyMonth:
		months := period.ParseMonths(dates)
		if len(months) == 0 {
			return
		}
		parts := make([]string, len(months))
		for i, m := range months {
			parts[i] = "(" + fact + ".year = " + strconv.Itoa(m.Year) +
				" AND " + fact + ".month = " + strconv.Itoa(m.Month) + ")"
		}
		b.addOrList(parts)
	case types.FrequencyQuarter:
		quarters := period.ParseQuarters(dates)
		if len(quarters) == 0 {
			return
		}
		parts := make([]string, len(quarters))
		for i, q := range quarters {
			parts[i] = "(" + fact + ".year = " + strconv.Itoa(q.Year) +
				" AND " + fact + ".quarter = " + strconv.Itoa(q.Quarter) + ")"
		}
		b.addOrList(parts)
	default:
		years := period.ParseYears(dates)
		if len(years) == 0 {
			return
		}
		parts := make([]string, len(years))
		for i, y := range years {
			parts[i] = strconv.Itoa(y)
		}
		b.add(fact + ".year IN (" + strings.Join(parts, ", ") + ")")
	}
}

func (b *builder) addOrList(parts []string) {
	if len(parts) == 1 {
		b.add(parts[0])
		return
	}
	b.add("(" + strings.Join(parts, " OR ") + ")")
}

// scalarConditions compiles the direct-equality fields
func (b *builder) scalarConditions(f *types.AnalyticsFilter) {
	fact := b.ctx.factAlias()
	if f.AccountCategory != "" {
		b.eq(fact+".account_category", f.AccountCategory.String())
	}
	if f.ReportType != "" {
		b.eq(fact+".report_type", f.ReportType)
	}
	if f.MainCreditorCUI != "" {
		b.eq(fact+".main_creditor_cui", f.MainCreditorCUI)
	}
}

// listConditions compiles the membership filters on the fact table. Funding
// source and budget sector IDs are numeric columns and coerce their tokens.
func (b *builder) listConditions(f *types.AnalyticsFilter) {
	fact := b.ctx.factAlias()
	b.in(fact+".report_id", f.ReportIDs)
	b.in(fact+".entity_cui", f.EntityCUIs)
	b.in(fact+".expense_type", f.ExpenseTypes)
	b.in(fact+".functional_code", f.FunctionalCodes)
	b.in(fact+".economic_code", f.EconomicCodes)
	b.in(fact+".program_code", f.ProgramCodes)
	b.inNumeric(fact+".funding_source_id", f.FundingSourceIDs)
	b.inNumeric(fact+".budget_sector_id", f.BudgetSectorIDs)
}

// prefixConditions compiles the hierarchical code-family filters
func (b *builder) prefixConditions(f *types.AnalyticsFilter) {
	fact := b.ctx.factAlias()
	b.likeAny(fact+".functional_code", f.FunctionalPrefixes)
	b.likeAny(fact+".economic_code", f.EconomicPrefixes)
}

// entityConditions compiles filters on the entity table, gated on the
// entity join being present
func (b *builder) entityConditions(f *types.AnalyticsFilter) {
	if !b.ctx.HasEntityJoin {
		return
	}
	entity := b.ctx.entityAlias()
	b.in(entity+".entity_type", f.EntityTypes)
	if f.IsUAT != nil {
		if *f.IsUAT {
			b.add(entity + ".is_uat = true")
		} else {
			b.add(entity + ".is_uat = false")
		}
	}
	b.inNumeric(entity+".uat_id", f.UatIDs)
}

// uatConditions compiles filters on the UAT table, gated on the UAT join
// being present
func (b *builder) uatConditions(f *types.AnalyticsFilter) {
	if !b.ctx.HasUatJoin {
		return
	}
	uat := b.ctx.uatAlias()
	b.in(uat+".county_code", f.CountyCodes)
	if f.MinPopulation != nil {
		b.add(uat + ".population >= " + strconv.FormatInt(*f.MinPopulation, 10))
	}
	if f.MaxPopulation != nil {
		b.add(uat + ".population <= " + strconv.FormatInt(*f.MaxPopulation, 10))
	}
}

// amountConditions compiles the item-level amount bounds against the
// frequency-selected amount column
func (b *builder) amountConditions(f *types.AnalyticsFilter) {
	col := b.ctx.factAlias() + "." + AmountColumn(f.Frequency())
	if f.ItemMinAmount != nil {
		b.add(col + " >= " + f.ItemMinAmount.String())
	}
	if f.ItemMaxAmount != nil {
		b.add(col + " <= " + f.ItemMaxAmount.String())
	}
}

// exclusionConditions mirrors the positive list, prefix and join-gated
// filters, negated. Columns reached through an optional join are NULL-safe.
// Economic code and prefix exclusions are suppressed for income queries.
func (b *builder) exclusionConditions(f *types.AnalyticsFilter) {
	ex := f.Exclude
	if ex == nil {
		return
	}
	fact := b.ctx.factAlias()
	income := f.AccountCategory == types.CategoryIncome

	b.notIn(fact+".report_id", ex.ReportIDs)
	b.notIn(fact+".entity_cui", ex.EntityCUIs)
	b.notIn(fact+".expense_type", ex.ExpenseTypes)
	b.notIn(fact+".functional_code", ex.FunctionalCodes)
	if !income {
		b.notIn(fact+".economic_code", ex.EconomicCodes)
	}
	b.notIn(fact+".program_code", ex.ProgramCodes)
	b.notInNumeric(fact+".funding_source_id", ex.FundingSourceIDs)
	b.notInNumeric(fact+".budget_sector_id", ex.BudgetSectorIDs)

	b.notLikeAll(fact+".functional_code", ex.FunctionalPrefixes)
	if !income {
		b.notLikeAll(fact+".economic_code", ex.EconomicPrefixes)
	}

	if b.ctx.HasEntityJoin {
		entity := b.ctx.entityAlias()
		b.nullSafeNotIn(entity+".entity_type", ex.EntityTypes)
		b.nullSafeNotInNumeric(entity+".uat_id", ex.UatIDs)
	}
	if b.ctx.HasUatJoin {
		b.nullSafeNotIn(b.ctx.uatAlias()+".county_code", ex.CountyCodes)
	}
}
