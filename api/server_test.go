package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"budget-analytics/core/analytics"
	"budget-analytics/core/types"
)

type stubRepo struct {
	rows []types.RawDataPoint
	err  error
}

func (s *stubRepo) HeatmapData(context.Context, types.HeatmapScope, *types.AnalyticsFilter) ([]types.RawDataPoint, error) {
	return s.rows, s.err
}

func (s *stubRepo) EntityData(context.Context, *types.AnalyticsFilter) ([]types.RawDataPoint, error) {
	return s.rows, s.err
}

type stubProvider struct{}

func (stubProvider) GenerateFactors(context.Context, []int) (*types.NormalizationFactors, error) {
	return types.NewNormalizationFactors(), nil
}

func newTestServer(repo *stubRepo) *Server {
	return NewServer(analytics.NewService(repo, stubProvider{}), "test")
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHeatmapMissingReportTypeIs400(t *testing.T) {
	srv := newTestServer(&stubRepo{})
	rec := postJSON(t, srv, "/v1/heatmap", `{"scope": "county", "filter": {}}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if resp.Error.Code != "MISSING_FILTER" {
		t.Errorf("error code = %s, want MISSING_FILTER", resp.Error.Code)
	}
}

func TestHeatmapStatementTimeoutIs504(t *testing.T) {
	srv := newTestServer(&stubRepo{err: fmt.Errorf("pq: canceling statement due to statement timeout")})
	rec := postJSON(t, srv, "/v1/heatmap", `{"scope": "uat", "filter": {"report_type": "execution"}}`)

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if resp.Error.Code != "TIMEOUT_ERROR" || !resp.Error.Retryable {
		t.Errorf("error body = %+v, want retryable TIMEOUT_ERROR", resp.Error)
	}
}

func TestHeatmapSuccess(t *testing.T) {
	srv := newTestServer(&stubRepo{rows: []types.RawDataPoint{
		{Code: "CJ", Name: "Cluj", Population: 700000, Year: 2023,
			TotalAmount: decimal.RequireFromString("1400000")},
	}})
	rec := postJSON(t, srv, "/v1/heatmap",
		`{"scope": "county", "filter": {"report_type": "execution"}, "normalization": "per_capita"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp HeatmapResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.RequestID == "" {
		t.Errorf("missing request id")
	}
	if len(resp.Points) != 1 {
		t.Fatalf("points = %d, want 1", len(resp.Points))
	}
	if !resp.Points[0].Amount.Equal(decimal.RequireFromString("2")) {
		t.Errorf("Amount = %s, want 2 (per capita)", resp.Points[0].Amount)
	}
	if !resp.Points[0].TotalAmount.Equal(decimal.RequireFromString("1400000")) {
		t.Errorf("TotalAmount = %s, want absolute total", resp.Points[0].TotalAmount)
	}
}

func TestUnknownScopeIs400(t *testing.T) {
	srv := newTestServer(&stubRepo{})
	rec := postJSON(t, srv, "/v1/heatmap", `{"scope": "planet", "filter": {"report_type": "x"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEntitySeriesEndpoint(t *testing.T) {
	srv := newTestServer(&stubRepo{rows: []types.RawDataPoint{
		{Code: "4305857", Name: "Cluj-Napoca", Year: 2022, TotalAmount: decimal.RequireFromString("10")},
		{Code: "4305857", Name: "Cluj-Napoca", Year: 2023, TotalAmount: decimal.RequireFromString("20")},
	}})
	rec := postJSON(t, srv, "/v1/entity",
		`{"filter": {"report_type": "execution"}, "series": true}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp EntityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(resp.Series) != 2 {
		t.Errorf("series points = %d, want 2", len(resp.Series))
	}
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(&stubRepo{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/health status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "test") {
		t.Errorf("/version = %d %s", rec.Code, rec.Body.String())
	}
}
