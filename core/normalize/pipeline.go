// Package normalize applies the monetary transformation pipeline to raw
// decimal amounts: inflation adjustment, currency conversion, cross-year
// aggregation and per-capita division, strictly in that order. Per-year
// factors differ, so each amount is transformed with its own year's factors
// before any summation; summing first and converting once would be wrong
// whenever rates vary across the queried years.
package normalize

import (
	"context"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"budget-analytics/core/types"
	"budget-analytics/internal/errors"
)

// FactorProvider supplies per-calendar-year normalization factors. It is an
// external collaborator; the engine only consumes the returned shape and
// never caches it.
type FactorProvider interface {
	// GenerateFactors returns factors for every year in the given set
	GenerateFactors(ctx context.Context, years []int) (*types.NormalizationFactors, error)
}

// GenerateFactors invokes the provider, converting both returned errors and
// panics into a NormalizationError. The provider is the only collaborator
// allowed to throw; it is always caught here, at the pipeline entry.
func GenerateFactors(ctx context.Context, p FactorProvider, years []int) (factors *types.NormalizationFactors, err error) {
	defer func() {
		if r := recover(); r != nil {
			factors = nil
			err = errors.Newf(errors.TypeNormalization, "factor provider panicked: %v", r)
		}
	}()

	factors, perr := p.GenerateFactors(ctx, years)
	if perr != nil {
		return nil, errors.Wrap(errors.TypeNormalization, "factor provider failed", perr)
	}
	if factors == nil {
		return nil, errors.New(errors.TypeNormalization, "factor provider returned no factors")
	}
	return factors, nil
}

// Transform runs the pipeline over raw per-entity-per-year rows and returns
// one aggregated point per distinct entity, sorted by entity code. Entity
// metadata is carried through from whichever raw row last set it; metadata
// is not expected to vary across years for the same entity.
//
// Any row whose year lacks a required factor fails the whole call; partial
// results are never returned.
func Transform(points []types.RawDataPoint, factors *types.NormalizationFactors, opts types.TransformationOptions) ([]types.AggregatedDataPoint, error) {
	if factors == nil {
		factors = types.NewNormalizationFactors()
	}
	acc := make(map[string]*types.AggregatedDataPoint)
	order := make([]string, 0)

	for _, p := range points {
		amount, err := transformAmount(p.TotalAmount, p.Year, factors, opts)
		if err != nil {
			return nil, err
		}

		agg, ok := acc[p.Code]
		if !ok {
			agg = &types.AggregatedDataPoint{}
			acc[p.Code] = agg
			order = append(order, p.Code)
		}
		agg.Code = p.Code
		agg.Name = p.Name
		agg.SirutaCode = p.SirutaCode
		agg.EntityCUI = p.EntityCUI
		agg.CountyCode = p.CountyCode
		agg.CountyName = p.CountyName
		agg.Population = p.Population
		agg.TotalAmount = agg.TotalAmount.Add(amount)
	}

	sort.Strings(order)
	out := make([]types.AggregatedDataPoint, 0, len(order))
	for _, code := range order {
		agg := acc[code]
		agg.PerCapitaAmount = perCapita(agg.TotalAmount, agg.Population)
		if opts.PerCapita {
			agg.Amount = agg.PerCapitaAmount
		} else {
			agg.Amount = agg.TotalAmount
		}
		out = append(out, *agg)
	}
	return out, nil
}

// TransformSeries runs pipeline steps 1-2 per row without the cross-year
// aggregation, returning one transformed point per entity per year in the
// input's order. Per-capita selection divides by the row's own population.
func TransformSeries(points []types.RawDataPoint, factors *types.NormalizationFactors, opts types.TransformationOptions) ([]types.SeriesPoint, error) {
	if factors == nil {
		factors = types.NewNormalizationFactors()
	}
	out := make([]types.SeriesPoint, 0, len(points))
	for _, p := range points {
		amount, err := transformAmount(p.TotalAmount, p.Year, factors, opts)
		if err != nil {
			return nil, err
		}
		if opts.PerCapita {
			amount = perCapita(amount, p.Population)
		}
		out = append(out, types.SeriesPoint{
			Code:   p.Code,
			Name:   p.Name,
			Year:   p.Year,
			Amount: amount,
		})
	}
	return out, nil
}

// transformAmount applies inflation adjustment then currency conversion for
// a single year's amount
func transformAmount(amount decimal.Decimal, year int, factors *types.NormalizationFactors, opts types.TransformationOptions) (decimal.Decimal, error) {
	key := strconv.Itoa(year)

	if opts.InflationAdjusted {
		cpi, ok := factors.CPI[key]
		if !ok {
			return decimal.Zero, errors.Newf(errors.TypeNormalization, "missing CPI factor for year %s", key)
		}
		amount = amount.Mul(cpi)
	}

	if opts.Currency != "" && opts.Currency != types.CurrencyRON {
		var rates map[string]decimal.Decimal
		switch opts.Currency {
		case types.CurrencyEUR:
			rates = factors.EUR
		case types.CurrencyUSD:
			rates = factors.USD
		default:
			return decimal.Zero, errors.Newf(errors.TypeNormalization, "unsupported currency %q", opts.Currency)
		}
		rate, ok := rates[key]
		if !ok || !rate.IsPositive() {
			return decimal.Zero, errors.Newf(errors.TypeNormalization, "missing %s rate for year %s", opts.Currency, key)
		}
		amount = amount.Div(rate)
	}

	return amount, nil
}

// perCapita divides a total by population, yielding zero when population is
// unknown or non-positive
func perCapita(total decimal.Decimal, population int64) decimal.Decimal {
	if population <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(population))
}
