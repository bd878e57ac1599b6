package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"budget-analytics/core/types"
	"budget-analytics/internal/errors"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type mockRepo struct {
	rows  []types.RawDataPoint
	err   error
	calls int
}

func (m *mockRepo) HeatmapData(_ context.Context, _ types.HeatmapScope, _ *types.AnalyticsFilter) ([]types.RawDataPoint, error) {
	m.calls++
	return m.rows, m.err
}

func (m *mockRepo) EntityData(_ context.Context, _ *types.AnalyticsFilter) ([]types.RawDataPoint, error) {
	m.calls++
	return m.rows, m.err
}

type mockProvider struct {
	factors *types.NormalizationFactors
	err     error
	calls   int
	years   []int
}

func (m *mockProvider) GenerateFactors(_ context.Context, years []int) (*types.NormalizationFactors, error) {
	m.calls++
	m.years = years
	return m.factors, m.err
}

func validFilter() *types.AnalyticsFilter {
	return &types.AnalyticsFilter{ReportType: "execution"}
}

func TestMissingReportTypeShortCircuits(t *testing.T) {
	repo := &mockRepo{}
	provider := &mockProvider{}
	svc := NewService(repo, provider)

	_, err := svc.CountyHeatmap(context.Background(), &types.AnalyticsFilter{}, types.TransformationOptions{})
	if !errors.IsType(err, errors.TypeMissingFilter) {
		t.Fatalf("error = %v, want MISSING_FILTER", err)
	}
	if repo.calls != 0 {
		t.Errorf("repository invoked %d times before validation, want 0", repo.calls)
	}
	if provider.calls != 0 {
		t.Errorf("factor provider invoked %d times before validation, want 0", provider.calls)
	}
}

func TestRepositoryErrorPropagatesAsDatabaseError(t *testing.T) {
	repo := &mockRepo{err: fmt.Errorf("connection reset")}
	svc := NewService(repo, &mockProvider{})

	_, err := svc.UatHeatmap(context.Background(), validFilter(), types.TransformationOptions{})
	if !errors.IsType(err, errors.TypeDatabase) {
		t.Errorf("error = %v, want DATABASE_ERROR", err)
	}
}

func TestStatementTimeoutClassified(t *testing.T) {
	repo := &mockRepo{err: fmt.Errorf("pq: canceling statement due to statement timeout")}
	svc := NewService(repo, &mockProvider{})

	_, err := svc.CountyHeatmap(context.Background(), validFilter(), types.TransformationOptions{})
	if !errors.IsType(err, errors.TypeTimeout) {
		t.Errorf("error = %v, want TIMEOUT_ERROR", err)
	}
	if e, ok := err.(*errors.Error); !ok || !e.Retryable {
		t.Errorf("timeout errors must stay retryable")
	}
}

func TestProviderFailurePropagatesAsNormalizationError(t *testing.T) {
	repo := &mockRepo{rows: []types.RawDataPoint{
		{Code: "CJ", Year: 2023, TotalAmount: dec("100")},
	}}
	provider := &mockProvider{err: fmt.Errorf("rates unavailable")}
	svc := NewService(repo, provider)

	opts := types.TransformationOptions{Currency: types.CurrencyEUR}
	_, err := svc.CountyHeatmap(context.Background(), validFilter(), opts)
	if !errors.IsType(err, errors.TypeNormalization) {
		t.Errorf("error = %v, want NORMALIZATION_ERROR", err)
	}
}

func TestFactorsSkippedForPlainRONTotals(t *testing.T) {
	repo := &mockRepo{rows: []types.RawDataPoint{
		{Code: "CJ", Year: 2023, Population: 10, TotalAmount: dec("100")},
	}}
	provider := &mockProvider{}
	svc := NewService(repo, provider)

	got, err := svc.CountyHeatmap(context.Background(), validFilter(),
		types.TransformationOptions{Currency: types.CurrencyRON, PerCapita: true})
	if err != nil {
		t.Fatalf("CountyHeatmap: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("factor provider called %d times for a RON pass-through, want 0", provider.calls)
	}
	if !got[0].Amount.Equal(dec("10")) {
		t.Errorf("Amount = %s, want 10", got[0].Amount)
	}
}

func TestFactorsGeneratedOnceForTouchedYears(t *testing.T) {
	factors := types.NewNormalizationFactors()
	factors.EUR["2021"] = dec("4.9")
	factors.EUR["2023"] = dec("5")
	repo := &mockRepo{rows: []types.RawDataPoint{
		{Code: "CJ", Year: 2023, TotalAmount: dec("500")},
		{Code: "AB", Year: 2021, TotalAmount: dec("49")},
		{Code: "CJ", Year: 2021, TotalAmount: dec("98")},
	}}
	provider := &mockProvider{factors: factors}
	svc := NewService(repo, provider)

	got, err := svc.CountyHeatmap(context.Background(), validFilter(),
		types.TransformationOptions{Currency: types.CurrencyEUR})
	if err != nil {
		t.Fatalf("CountyHeatmap: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want exactly 1", provider.calls)
	}
	if len(provider.years) != 2 || provider.years[0] != 2021 || provider.years[1] != 2023 {
		t.Errorf("touched years = %v, want [2021 2023]", provider.years)
	}
	// AB: 49/4.9 = 10; CJ: 98/4.9 + 500/5 = 20 + 100 = 120
	if !got[0].TotalAmount.Equal(dec("10")) {
		t.Errorf("AB total = %s, want 10", got[0].TotalAmount)
	}
	if !got[1].TotalAmount.Equal(dec("120")) {
		t.Errorf("CJ total = %s, want 120", got[1].TotalAmount)
	}
}

func TestMetadataCarriedThrough(t *testing.T) {
	repo := &mockRepo{rows: []types.RawDataPoint{
		{Code: "54975", Name: "Cluj-Napoca", SirutaCode: "54975", EntityCUI: "4305857",
			CountyCode: "CJ", CountyName: "Cluj", Population: 286598, Year: 2022, TotalAmount: dec("10")},
		{Code: "54975", Name: "Cluj-Napoca", SirutaCode: "54975", EntityCUI: "4305857",
			CountyCode: "CJ", CountyName: "Cluj", Population: 286598, Year: 2023, TotalAmount: dec("20")},
	}}
	svc := NewService(repo, &mockProvider{})

	got, err := svc.UatHeatmap(context.Background(), validFilter(), types.TransformationOptions{})
	if err != nil {
		t.Fatalf("UatHeatmap: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 point, got %d", len(got))
	}
	p := got[0]
	if p.Name != "Cluj-Napoca" || p.SirutaCode != "54975" || p.EntityCUI != "4305857" ||
		p.CountyCode != "CJ" || p.Population != 286598 {
		t.Errorf("metadata not carried through: %+v", p)
	}
	if !p.TotalAmount.Equal(dec("30")) {
		t.Errorf("TotalAmount = %s, want 30", p.TotalAmount)
	}
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	svc := NewService(&mockRepo{}, &mockProvider{})
	got, err := svc.EntityAnalytics(context.Background(), validFilter(), types.TransformationOptions{})
	if err != nil {
		t.Fatalf("EntityAnalytics: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d points", len(got))
	}
}

func TestEntitySeriesTransformsPerYear(t *testing.T) {
	repo := &mockRepo{rows: []types.RawDataPoint{
		{Code: "4305857", Name: "Cluj-Napoca", Year: 2022, TotalAmount: dec("500")},
		{Code: "4305857", Name: "Cluj-Napoca", Year: 2023, TotalAmount: dec("500")},
	}}
	factors := types.NewNormalizationFactors()
	factors.EUR["2022"] = dec("4")
	factors.EUR["2023"] = dec("5")
	svc := NewService(repo, &mockProvider{factors: factors})

	got, err := svc.EntitySeries(context.Background(), validFilter(),
		types.TransformationOptions{Currency: types.CurrencyEUR})
	if err != nil {
		t.Fatalf("EntitySeries: %v", err)
	}
	if len(got) != 2 || !got[0].Amount.Equal(dec("125")) || !got[1].Amount.Equal(dec("100")) {
		t.Errorf("series = %+v, want amounts 125 then 100", got)
	}
}
