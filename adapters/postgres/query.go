// Package postgres - Analytics query assembly
package postgres

import (
	"strings"

	"budget-analytics/core/conditions"
	"budget-analytics/core/types"
)

// buildHeatmapQuery assembles the county- or UAT-grained aggregation query.
// Condition fragments come from the compiler with both joins declared,
// since both scopes traverse the entity and UAT tables.
func (r *Repository) buildHeatmapQuery(scope types.HeatmapScope, filter *types.AnalyticsFilter) string {
	ctx := conditions.NewBuildContext().WithJoins(true, true)
	amount := "li." + conditions.AmountColumn(filter.Frequency())

	var b strings.Builder
	if scope == types.ScopeCounty {
		b.WriteString("SELECT c.code AS code, c.name AS name, '' AS siruta_code, '' AS entity_cui, ")
		b.WriteString("c.code AS county_code, c.name AS county_name, c.population AS population, ")
		b.WriteString("li.year AS year, SUM(" + amount + ") AS total_amount")
		b.WriteString(" FROM " + r.factTables())
		b.WriteString(" JOIN " + r.cfg.CountyTable + " c ON c.code = u.county_code")
	} else {
		b.WriteString("SELECT u.id::text AS code, u.name AS name, u.siruta_code AS siruta_code, ")
		b.WriteString("MIN(e.cui) AS entity_cui, u.county_code AS county_code, u.county_name AS county_name, ")
		b.WriteString("u.population AS population, li.year AS year, SUM(" + amount + ") AS total_amount")
		b.WriteString(" FROM " + r.factTables())
	}

	writeWhere(&b, conditions.Compile(filter, ctx))

	if scope == types.ScopeCounty {
		b.WriteString(" GROUP BY c.code, c.name, c.population, li.year")
	} else {
		b.WriteString(" GROUP BY u.id, u.name, u.siruta_code, u.county_code, u.county_name, u.population, li.year")
	}

	writeHaving(&b, amount, filter)
	b.WriteString(" ORDER BY code, year")
	return b.String()
}

// buildEntityQuery assembles the entity-grained aggregation query. The UAT
// join is optional here, so UAT columns coalesce for non-UAT entities.
func (r *Repository) buildEntityQuery(filter *types.AnalyticsFilter) string {
	ctx := conditions.NewBuildContext().WithJoins(true, true)
	amount := "li." + conditions.AmountColumn(filter.Frequency())

	var b strings.Builder
	b.WriteString("SELECT e.cui AS code, e.name AS name, COALESCE(u.siruta_code, '') AS siruta_code, ")
	b.WriteString("e.cui AS entity_cui, COALESCE(u.county_code, '') AS county_code, ")
	b.WriteString("COALESCE(u.county_name, '') AS county_name, COALESCE(u.population, 0) AS population, ")
	b.WriteString("li.year AS year, SUM(" + amount + ") AS total_amount")
	b.WriteString(" FROM " + r.cfg.FactTable + " li")
	b.WriteString(" JOIN " + r.cfg.EntityTable + " e ON e.cui = li.entity_cui")
	b.WriteString(" LEFT JOIN " + r.cfg.UatTable + " u ON u.id = e.uat_id")

	writeWhere(&b, conditions.Compile(filter, ctx))

	b.WriteString(" GROUP BY e.cui, e.name, u.siruta_code, u.county_code, u.county_name, u.population, li.year")
	writeHaving(&b, amount, filter)
	b.WriteString(" ORDER BY code, year")
	return b.String()
}

// factTables renders the fact-entity-UAT join chain shared by both heatmap
// scopes
func (r *Repository) factTables() string {
	return r.cfg.FactTable + " li" +
		" JOIN " + r.cfg.EntityTable + " e ON e.cui = li.entity_cui" +
		" JOIN " + r.cfg.UatTable + " u ON u.id = e.uat_id"
}

func writeWhere(b *strings.Builder, frags []string) {
	if len(frags) == 0 {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(frags, " AND "))
}

// writeHaving applies the aggregate amount bounds against the same
// frequency-selected column the item-level bounds use
func writeHaving(b *strings.Builder, amount string, filter *types.AnalyticsFilter) {
	var parts []string
	if filter.AggregateMinAmount != nil {
		parts = append(parts, "SUM("+amount+") >= "+filter.AggregateMinAmount.String())
	}
	if filter.AggregateMaxAmount != nil {
		parts = append(parts, "SUM("+amount+") <= "+filter.AggregateMaxAmount.String())
	}
	if len(parts) == 0 {
		return
	}
	b.WriteString(" HAVING ")
	b.WriteString(strings.Join(parts, " AND "))
}
