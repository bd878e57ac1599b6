package postgres

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"budget-analytics/core/types"
	"budget-analytics/internal/config"
)

func testRepo() *Repository {
	return &Repository{cfg: config.Default().Analytics}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBuildCountyHeatmapQuery(t *testing.T) {
	f := &types.AnalyticsFilter{
		AccountCategory: types.CategoryExpense,
		ReportType:      "execution",
		ReportPeriod: &types.ReportPeriod{
			Frequency: types.FrequencyYear,
			Selection: types.PeriodSelection{
				Interval: &types.PeriodInterval{Start: "2020", End: "2023"},
			},
		},
		CountyCodes: []string{"CJ", "AB"},
	}

	query := testRepo().buildHeatmapQuery(types.ScopeCounty, f)

	wantParts := []string{
		"FROM budget_line_items li",
		"JOIN entities e ON e.cui = li.entity_cui",
		"JOIN uats u ON u.id = e.uat_id",
		"JOIN counties c ON c.code = u.county_code",
		"WHERE li.is_yearly = true AND li.year >= 2020 AND li.year <= 2023",
		"li.account_category = 'expense'",
		"u.county_code IN ('CJ', 'AB')",
		"SUM(li.ytd_amount) AS total_amount",
		"GROUP BY c.code, c.name, c.population, li.year",
		"ORDER BY code, year",
	}
	for _, part := range wantParts {
		if !strings.Contains(query, part) {
			t.Errorf("query missing %q:\n%s", part, query)
		}
	}
	if strings.Contains(query, "HAVING") {
		t.Errorf("unexpected HAVING clause:\n%s", query)
	}
}

func TestBuildUatHeatmapQueryWithAggregateBounds(t *testing.T) {
	f := &types.AnalyticsFilter{
		ReportType: "execution",
		ReportPeriod: &types.ReportPeriod{
			Frequency: types.FrequencyQuarter,
		},
		AggregateMinAmount: decPtr("1000"),
		AggregateMaxAmount: decPtr("500000"),
	}

	query := testRepo().buildHeatmapQuery(types.ScopeUAT, f)

	wantParts := []string{
		"u.id::text AS code",
		"SUM(li.quarterly_amount) AS total_amount",
		"WHERE li.is_quarterly = true AND li.report_type = 'execution'",
		"HAVING SUM(li.quarterly_amount) >= 1000 AND SUM(li.quarterly_amount) <= 500000",
	}
	for _, part := range wantParts {
		if !strings.Contains(query, part) {
			t.Errorf("query missing %q:\n%s", part, query)
		}
	}
}

func TestBuildEntityQueryLeftJoinsUats(t *testing.T) {
	f := &types.AnalyticsFilter{
		ReportType: "execution",
		EntityCUIs: []string{"4305857"},
	}

	query := testRepo().buildEntityQuery(f)

	wantParts := []string{
		"LEFT JOIN uats u ON u.id = e.uat_id",
		"COALESCE(u.population, 0) AS population",
		"li.entity_cui IN ('4305857')",
		"SUM(li.ytd_amount) AS total_amount",
	}
	for _, part := range wantParts {
		if !strings.Contains(query, part) {
			t.Errorf("query missing %q:\n%s", part, query)
		}
	}
}

func TestItemAndAggregateBoundsUseSameColumn(t *testing.T) {
	f := &types.AnalyticsFilter{
		ReportType: "execution",
		ReportPeriod: &types.ReportPeriod{
			Frequency: types.FrequencyMonth,
		},
		ItemMinAmount:      decPtr("10"),
		AggregateMinAmount: decPtr("100"),
	}

	query := testRepo().buildHeatmapQuery(types.ScopeUAT, f)
	if !strings.Contains(query, "li.monthly_amount >= 10") {
		t.Errorf("item bound not on monthly column:\n%s", query)
	}
	if !strings.Contains(query, "HAVING SUM(li.monthly_amount) >= 100") {
		t.Errorf("aggregate bound not on monthly column:\n%s", query)
	}
}

func TestDsnWithTimeout(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "url dsn gains query param",
			cfg:  config.DatabaseConfig{DSN: "postgres://db/budget", StatementTimeoutMillis: 5000},
			want: "postgres://db/budget?statement_timeout=5000",
		},
		{
			name: "url dsn with existing params",
			cfg:  config.DatabaseConfig{DSN: "postgres://db/budget?sslmode=disable", StatementTimeoutMillis: 5000},
			want: "postgres://db/budget?sslmode=disable&statement_timeout=5000",
		},
		{
			name: "keyword dsn gains keyword",
			cfg:  config.DatabaseConfig{DSN: "host=db dbname=budget", StatementTimeoutMillis: 5000},
			want: "host=db dbname=budget statement_timeout=5000",
		},
		{
			name: "zero timeout untouched",
			cfg:  config.DatabaseConfig{DSN: "postgres://db/budget"},
			want: "postgres://db/budget",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dsnWithTimeout(tt.cfg); got != tt.want {
				t.Errorf("dsnWithTimeout = %s, want %s", got, tt.want)
			}
		})
	}
}
