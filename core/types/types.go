// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// AccountCategory distinguishes expense rows from income rows
type AccountCategory string

const (
	CategoryExpense AccountCategory = "expense"
	CategoryIncome  AccountCategory = "income"
)

// String returns the string representation of the category
func (c AccountCategory) String() string {
	return string(c)
}

// IsValid checks if the category is a known category
func (c AccountCategory) IsValid() bool {
	switch c {
	case CategoryExpense, CategoryIncome:
		return true
	default:
		return false
	}
}

// Currency represents a currency code
type Currency string

const (
	CurrencyRON Currency = "RON"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// IsValid checks if the currency is supported
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyRON, CurrencyEUR, CurrencyUSD:
		return true
	default:
		return false
	}
}

// Frequency is the reporting granularity of budget execution rows
type Frequency string

const (
	FrequencyMonth   Frequency = "MONTH"
	FrequencyQuarter Frequency = "QUARTER"
	FrequencyYear    Frequency = "YEAR"
)

// String returns the string representation
func (f Frequency) String() string {
	return string(f)
}

// IsValid checks if the frequency is a known frequency
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyMonth, FrequencyQuarter, FrequencyYear:
		return true
	default:
		return false
	}
}

// HeatmapScope selects the geographic grain of a heatmap query
type HeatmapScope string

const (
	// ScopeCounty aggregates one point per county
	ScopeCounty HeatmapScope = "county"

	// ScopeUAT aggregates one point per administrative-territorial unit
	ScopeUAT HeatmapScope = "uat"
)

// IsValid checks if the scope is a known scope
func (s HeatmapScope) IsValid() bool {
	return s == ScopeCounty || s == ScopeUAT
}
