// Package types - Analytics filter types
package types

import "github.com/shopspring/decimal"

// PeriodInterval is an inclusive period range; bounds use the same lexical
// format as the selection's frequency ("2024", "2024-06", "2024-Q2").
type PeriodInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PeriodSelection selects reporting periods either by an interval, by a
// discrete list of period values, or both. When both are present the
// resulting conditions are conjoined; callers are expected to populate
// only one of the two.
type PeriodSelection struct {
	Interval *PeriodInterval `json:"interval,omitempty"`
	Dates    []string        `json:"dates,omitempty"`
}

// IsEmpty reports whether the selection carries no period constraint
func (s *PeriodSelection) IsEmpty() bool {
	return s == nil || (s.Interval == nil && len(s.Dates) == 0)
}

// ReportPeriod pairs a reporting frequency with a period selection
type ReportPeriod struct {
	Frequency Frequency       `json:"frequency"`
	Selection PeriodSelection `json:"selection"`
}

// ExcludeFilter mirrors the positive dimension fields of AnalyticsFilter,
// negated. Fields reached through an optional join compile NULL-safe.
type ExcludeFilter struct {
	FunctionalCodes    []string `json:"functional_codes,omitempty"`
	FunctionalPrefixes []string `json:"functional_prefixes,omitempty"`
	EconomicCodes      []string `json:"economic_codes,omitempty"`
	EconomicPrefixes   []string `json:"economic_prefixes,omitempty"`
	ProgramCodes       []string `json:"program_codes,omitempty"`
	EntityTypes        []string `json:"entity_types,omitempty"`
	EntityCUIs         []string `json:"entity_cuis,omitempty"`
	UatIDs             []string `json:"uat_ids,omitempty"`
	CountyCodes        []string `json:"county_codes,omitempty"`
	FundingSourceIDs   []string `json:"funding_source_ids,omitempty"`
	BudgetSectorIDs    []string `json:"budget_sector_ids,omitempty"`
	ReportIDs          []string `json:"report_ids,omitempty"`
	ExpenseTypes       []string `json:"expense_types,omitempty"`
}

// AnalyticsFilter is the declarative, multi-dimensional filter callers send
// against the budget execution fact table. ReportType is mandatory; its
// absence is a validation failure, never a silently-empty result.
type AnalyticsFilter struct {
	// AccountCategory restricts rows to expense or income
	AccountCategory AccountCategory `json:"account_category,omitempty"`

	// ReportPeriod restricts the reporting periods touched by the query
	ReportPeriod *ReportPeriod `json:"report_period,omitempty"`

	// ReportType is the mandatory report type discriminator
	ReportType string `json:"report_type,omitempty"`

	// Dimension membership filters
	FunctionalCodes    []string `json:"functional_codes,omitempty"`
	FunctionalPrefixes []string `json:"functional_prefixes,omitempty"`
	EconomicCodes      []string `json:"economic_codes,omitempty"`
	EconomicPrefixes   []string `json:"economic_prefixes,omitempty"`
	ProgramCodes       []string `json:"program_codes,omitempty"`
	EntityTypes        []string `json:"entity_types,omitempty"`
	EntityCUIs         []string `json:"entity_cuis,omitempty"`
	UatIDs             []string `json:"uat_ids,omitempty"`
	CountyCodes        []string `json:"county_codes,omitempty"`
	FundingSourceIDs   []string `json:"funding_source_ids,omitempty"`
	BudgetSectorIDs    []string `json:"budget_sector_ids,omitempty"`
	ReportIDs          []string `json:"report_ids,omitempty"`
	ExpenseTypes       []string `json:"expense_types,omitempty"`

	// Scalar filters
	MainCreditorCUI string `json:"main_creditor_cui,omitempty"`
	IsUAT           *bool  `json:"is_uat,omitempty"`
	MinPopulation   *int64 `json:"min_population,omitempty"`
	MaxPopulation   *int64 `json:"max_population,omitempty"`

	// Amount bounds. Item bounds apply per fact row against the
	// frequency-selected amount column; aggregate bounds apply to the
	// grouped sum.
	ItemMinAmount      *decimal.Decimal `json:"item_min_amount,omitempty"`
	ItemMaxAmount      *decimal.Decimal `json:"item_max_amount,omitempty"`
	AggregateMinAmount *decimal.Decimal `json:"aggregate_min_amount,omitempty"`
	AggregateMaxAmount *decimal.Decimal `json:"aggregate_max_amount,omitempty"`

	// Exclude negates the mirrored dimension fields
	Exclude *ExcludeFilter `json:"exclude,omitempty"`

	// Normalization intent nested in the filter. Root-level normalization
	// parameters supplied by the caller take precedence over these.
	Currency          Currency `json:"currency,omitempty"`
	InflationAdjusted *bool    `json:"inflation_adjusted,omitempty"`
}

// Frequency returns the selected reporting frequency, defaulting to YEAR
// when no report period is set.
func (f *AnalyticsFilter) Frequency() Frequency {
	if f.ReportPeriod == nil || f.ReportPeriod.Frequency == "" {
		return FrequencyYear
	}
	return f.ReportPeriod.Frequency
}
