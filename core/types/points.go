// Package types - Data point and normalization types
package types

import "github.com/shopspring/decimal"

// RawDataPoint is one repository row: one entity, one year, raw amount in
// RON with no normalization applied.
type RawDataPoint struct {
	// Code identifies the entity at the query's grain (county code, UAT id
	// or entity CUI)
	Code string `json:"code" db:"code"`

	// Name is the entity display name
	Name string `json:"name" db:"name"`

	// SirutaCode is the SIRUTA registry code, when the grain carries one
	SirutaCode string `json:"siruta_code,omitempty" db:"siruta_code"`

	// EntityCUI is the fiscal identification code, when available
	EntityCUI string `json:"entity_cui,omitempty" db:"entity_cui"`

	// CountyCode and CountyName locate the entity geographically
	CountyCode string `json:"county_code,omitempty" db:"county_code"`
	CountyName string `json:"county_name,omitempty" db:"county_name"`

	// Population is the entity population used for per-capita division
	Population int64 `json:"population" db:"population"`

	// Year is the calendar year this row covers
	Year int `json:"year" db:"year"`

	// TotalAmount is the raw summed amount for this entity and year
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
}

// AggregatedDataPoint is one pipeline output row: one entity, all queried
// years collapsed, amounts fully normalized.
type AggregatedDataPoint struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	SirutaCode string `json:"siruta_code,omitempty"`
	EntityCUI  string `json:"entity_cui,omitempty"`
	CountyCode string `json:"county_code,omitempty"`
	CountyName string `json:"county_name,omitempty"`
	Population int64  `json:"population"`

	// Amount is the primary metric: TotalAmount or PerCapitaAmount,
	// selected by TransformationOptions.PerCapita
	Amount decimal.Decimal `json:"amount"`

	// TotalAmount is the cross-year aggregate in the target currency,
	// never divided by population
	TotalAmount decimal.Decimal `json:"total_amount"`

	// PerCapitaAmount is always populated, zero when population is unknown
	PerCapitaAmount decimal.Decimal `json:"per_capita_amount"`
}

// SeriesPoint is one per-year transformed value for an entity, before any
// cross-year aggregation.
type SeriesPoint struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Year   int             `json:"year"`
	Amount decimal.Decimal `json:"amount"`
}

// NormalizationFactors carries the per-calendar-year factors the
// transformation pipeline consumes, keyed by 4-digit year string. Built
// fresh per request by the factor provider; never cached by the engine.
type NormalizationFactors struct {
	CPI        map[string]decimal.Decimal `json:"cpi"`
	EUR        map[string]decimal.Decimal `json:"eur"`
	USD        map[string]decimal.Decimal `json:"usd"`
	GDP        map[string]decimal.Decimal `json:"gdp"`
	Population map[string]decimal.Decimal `json:"population"`
}

// NewNormalizationFactors returns an empty factor set with all maps allocated
func NewNormalizationFactors() *NormalizationFactors {
	return &NormalizationFactors{
		CPI:        make(map[string]decimal.Decimal),
		EUR:        make(map[string]decimal.Decimal),
		USD:        make(map[string]decimal.Decimal),
		GDP:        make(map[string]decimal.Decimal),
		Population: make(map[string]decimal.Decimal),
	}
}

// TransformationOptions controls the monetary transformation pipeline.
// Constructed per request from caller input, immutable for the run.
type TransformationOptions struct {
	// InflationAdjusted multiplies each per-year amount by that year's CPI
	InflationAdjusted bool `json:"inflation_adjusted"`

	// Currency converts per-year amounts before aggregation; RON is a no-op
	Currency Currency `json:"currency"`

	// PerCapita selects the per-capita figure as the primary metric
	PerCapita bool `json:"per_capita"`
}

// Normalization is the caller-facing normalization shorthand. Callers map it
// onto TransformationOptions before invoking the engine.
type Normalization string

const (
	NormalizationTotal         Normalization = "total"
	NormalizationPerCapita     Normalization = "per_capita"
	NormalizationPercentGDP    Normalization = "percent_gdp"
	NormalizationTotalEuro     Normalization = "total_euro"
	NormalizationPerCapitaEuro Normalization = "per_capita_euro"
)

// IsValid checks if the normalization value is known
func (n Normalization) IsValid() bool {
	switch n {
	case NormalizationTotal, NormalizationPerCapita, NormalizationPercentGDP,
		NormalizationTotalEuro, NormalizationPerCapitaEuro:
		return true
	default:
		return false
	}
}

// Options maps the shorthand onto pipeline options. percent_gdp keeps
// absolute RON totals; the GDP share is derived by the caller from the
// factor set.
func (n Normalization) Options() TransformationOptions {
	switch n {
	case NormalizationPerCapita:
		return TransformationOptions{Currency: CurrencyRON, PerCapita: true}
	case NormalizationTotalEuro:
		return TransformationOptions{Currency: CurrencyEUR}
	case NormalizationPerCapitaEuro:
		return TransformationOptions{Currency: CurrencyEUR, PerCapita: true}
	default:
		return TransformationOptions{Currency: CurrencyRON}
	}
}
