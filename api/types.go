// Package api - Request/response types
package api

import (
	"budget-analytics/core/types"
)

// HeatmapRequest is the caller-facing heatmap query. Root-level
// normalization parameters take precedence over normalization fields nested
// inside the filter, for backward compatibility.
type HeatmapRequest struct {
	// Scope is "county" or "uat"
	Scope types.HeatmapScope `json:"scope"`

	// Filter is the declarative analytics filter
	Filter types.AnalyticsFilter `json:"filter"`

	// Normalization is the shorthand normalization selector
	Normalization types.Normalization `json:"normalization,omitempty"`

	// InflationAdjusted overrides the filter-nested flag when set
	InflationAdjusted *bool `json:"inflation_adjusted,omitempty"`

	// Currency overrides the filter-nested currency when set
	Currency types.Currency `json:"currency,omitempty"`
}

// EntityRequest is the caller-facing entity analytics query
type EntityRequest struct {
	Filter            types.AnalyticsFilter `json:"filter"`
	Normalization     types.Normalization   `json:"normalization,omitempty"`
	InflationAdjusted *bool                 `json:"inflation_adjusted,omitempty"`
	Currency          types.Currency        `json:"currency,omitempty"`

	// Series requests per-year points instead of the cross-year aggregate
	Series bool `json:"series,omitempty"`
}

// HeatmapResponse carries the aggregated points plus request metadata
type HeatmapResponse struct {
	RequestID string                      `json:"request_id"`
	Points    []types.AggregatedDataPoint `json:"points"`
}

// EntityResponse carries aggregated or per-year entity points
type EntityResponse struct {
	RequestID string                      `json:"request_id"`
	Points    []types.AggregatedDataPoint `json:"points,omitempty"`
	Series    []types.SeriesPoint         `json:"series,omitempty"`
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a request failure
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id,omitempty"`
}
