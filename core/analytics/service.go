// Package analytics hosts the aggregation use cases. Each call follows the
// same state machine: validate filter, fetch raw rows, run the
// transformation pipeline, return typed results or structured errors. The
// service holds no mutable state; concurrent requests share only the
// collaborators' own pools.
package analytics

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"budget-analytics/core/normalize"
	"budget-analytics/core/types"
	"budget-analytics/internal/errors"
	"budget-analytics/internal/logging"
)

// Repository is the engine's port to the relational store. Implementations
// return one row per entity per year matching the filter, with no
// normalization applied.
type Repository interface {
	// HeatmapData fetches county- or UAT-grained rows
	HeatmapData(ctx context.Context, scope types.HeatmapScope, filter *types.AnalyticsFilter) ([]types.RawDataPoint, error)

	// EntityData fetches entity-grained rows keyed by fiscal code
	EntityData(ctx context.Context, filter *types.AnalyticsFilter) ([]types.RawDataPoint, error)
}

// Service orchestrates the analytics use cases
type Service struct {
	repo    Repository
	factors normalize.FactorProvider
	log     *zap.Logger
}

// NewService creates a service over the given collaborators
func NewService(repo Repository, factors normalize.FactorProvider) *Service {
	return &Service{
		repo:    repo,
		factors: factors,
		log:     logging.Logger.Named("analytics"),
	}
}

// CountyHeatmap returns one aggregated point per county
func (s *Service) CountyHeatmap(ctx context.Context, filter *types.AnalyticsFilter, opts types.TransformationOptions) ([]types.AggregatedDataPoint, error) {
	return s.heatmap(ctx, types.ScopeCounty, filter, opts)
}

// UatHeatmap returns one aggregated point per administrative-territorial unit
func (s *Service) UatHeatmap(ctx context.Context, filter *types.AnalyticsFilter, opts types.TransformationOptions) ([]types.AggregatedDataPoint, error) {
	return s.heatmap(ctx, types.ScopeUAT, filter, opts)
}

func (s *Service) heatmap(ctx context.Context, scope types.HeatmapScope, filter *types.AnalyticsFilter, opts types.TransformationOptions) ([]types.AggregatedDataPoint, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	rows, err := s.repo.HeatmapData(ctx, scope, filter)
	if err != nil {
		return nil, asDatabaseError(err)
	}
	if len(rows) == 0 {
		return []types.AggregatedDataPoint{}, nil
	}

	factors, err := s.generateFactors(ctx, rows, opts)
	if err != nil {
		return nil, err
	}

	points, err := normalize.Transform(rows, factors, opts)
	if err != nil {
		return nil, err
	}

	s.log.Debug("heatmap aggregated",
		zap.String("scope", string(scope)),
		zap.Int("rows", len(rows)),
		zap.Int("points", len(points)))
	return points, nil
}

// EntityAnalytics returns one aggregated point per entity, collapsed across
// the queried years.
func (s *Service) EntityAnalytics(ctx context.Context, filter *types.AnalyticsFilter, opts types.TransformationOptions) ([]types.AggregatedDataPoint, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	rows, err := s.repo.EntityData(ctx, filter)
	if err != nil {
		return nil, asDatabaseError(err)
	}
	if len(rows) == 0 {
		return []types.AggregatedDataPoint{}, nil
	}

	factors, err := s.generateFactors(ctx, rows, opts)
	if err != nil {
		return nil, err
	}
	return normalize.Transform(rows, factors, opts)
}

// EntitySeries returns per-year transformed values per entity, without
// cross-year aggregation.
func (s *Service) EntitySeries(ctx context.Context, filter *types.AnalyticsFilter, opts types.TransformationOptions) ([]types.SeriesPoint, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	rows, err := s.repo.EntityData(ctx, filter)
	if err != nil {
		return nil, asDatabaseError(err)
	}
	if len(rows) == 0 {
		return []types.SeriesPoint{}, nil
	}

	factors, err := s.generateFactors(ctx, rows, opts)
	if err != nil {
		return nil, err
	}
	return normalize.TransformSeries(rows, factors, opts)
}

// generateFactors fetches factors once for the full touched-year set. The
// call is skipped when the options make the pipeline a pure pass-through.
func (s *Service) generateFactors(ctx context.Context, rows []types.RawDataPoint, opts types.TransformationOptions) (*types.NormalizationFactors, error) {
	if !opts.InflationAdjusted && (opts.Currency == "" || opts.Currency == types.CurrencyRON) {
		return nil, nil
	}
	return normalize.GenerateFactors(ctx, s.factors, touchedYears(rows))
}

// touchedYears collects the distinct years present in the rows, ascending
func touchedYears(rows []types.RawDataPoint) []int {
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, r := range rows {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}

// validateFilter short-circuits before any repository fetch
func validateFilter(filter *types.AnalyticsFilter) error {
	if filter == nil || filter.ReportType == "" {
		return errors.MissingFilter("report_type")
	}
	return nil
}

// asDatabaseError passes typed errors through and wraps everything else as
// a (possibly timeout-classified) database error
func asDatabaseError(err error) error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	return errors.Database("repository fetch failed", err)
}
