// Package api - Normalization option resolution
package api

import "budget-analytics/core/types"

// resolveOptions maps caller normalization intent onto pipeline options.
// Precedence: the normalization shorthand wins outright; otherwise explicit
// root-level currency/inflation parameters apply; the filter-nested fields
// are the backward-compatible fallback.
func resolveOptions(norm types.Normalization, currency types.Currency, inflation *bool, filter *types.AnalyticsFilter) types.TransformationOptions {
	if norm != "" && norm.IsValid() {
		opts := norm.Options()
		if inflation != nil {
			opts.InflationAdjusted = *inflation
		}
		return opts
	}

	opts := types.TransformationOptions{Currency: types.CurrencyRON}
	switch {
	case currency != "" && currency.IsValid():
		opts.Currency = currency
	case filter.Currency != "" && filter.Currency.IsValid():
		opts.Currency = filter.Currency
	}
	switch {
	case inflation != nil:
		opts.InflationAdjusted = *inflation
	case filter.InflationAdjusted != nil:
		opts.InflationAdjusted = *filter.InflationAdjusted
	}
	return opts
}
