// Package cmd - heatmap command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"budget-analytics/adapters/factors"
	"budget-analytics/adapters/postgres"
	"budget-analytics/core/analytics"
	"budget-analytics/core/types"
	"budget-analytics/internal/config"
	"budget-analytics/internal/logging"
)

var (
	filterFile    string
	scope         string
	normalization string
	factorsFile   string
	outputFormat  string
)

// heatmapCmd represents the heatmap command
var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Run a county or UAT heatmap query",
	Long: `Run an aggregated heatmap query against the configured database.

The filter is a JSON document with the analytics filter shape; report_type
is mandatory.

Examples:
  budget-analytics heatmap --filter filter.json
  budget-analytics heatmap --scope uat --normalization per_capita_euro --filter filter.json
  budget-analytics heatmap --format json --filter filter.json`,
	RunE: runHeatmap,
}

func init() {
	heatmapCmd.Flags().StringVarP(&filterFile, "filter", "f", "", "filter JSON file (required)")
	heatmapCmd.Flags().StringVarP(&scope, "scope", "s", "county", "heatmap scope (county, uat)")
	heatmapCmd.Flags().StringVarP(&normalization, "normalization", "n", "total", "normalization (total, per_capita, percent_gdp, total_euro, per_capita_euro)")
	heatmapCmd.Flags().StringVar(&factorsFile, "factors", "", "factors dataset path (overrides config)")
	heatmapCmd.Flags().StringVarP(&outputFormat, "format", "o", "cli", "output format (cli, json)")
	_ = heatmapCmd.MarkFlagRequired("filter")
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	data, err := os.ReadFile(filterFile)
	if err != nil {
		return fmt.Errorf("reading filter file: %w", err)
	}
	var filter types.AnalyticsFilter
	if err := json.Unmarshal(data, &filter); err != nil {
		return fmt.Errorf("decoding filter file: %w", err)
	}

	norm := types.Normalization(normalization)
	if !norm.IsValid() {
		return fmt.Errorf("unknown normalization: %s", normalization)
	}
	heatmapScope := types.HeatmapScope(scope)
	if !heatmapScope.IsValid() {
		return fmt.Errorf("unknown scope: %s", scope)
	}

	factorsPath := cfg.Analytics.FactorsPath
	if factorsFile != "" {
		factorsPath = factorsFile
	}
	provider, err := factors.NewFileProvider(factorsPath)
	if err != nil {
		return fmt.Errorf("loading factors dataset: %w", err)
	}

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	svc := analytics.NewService(postgres.NewRepository(db, cfg.Analytics), provider)
	logging.Info("running heatmap query")

	opts := norm.Options()
	var points []types.AggregatedDataPoint
	if heatmapScope == types.ScopeCounty {
		points, err = svc.CountyHeatmap(ctx, &filter, opts)
	} else {
		points, err = svc.UatHeatmap(ctx, &filter, opts)
	}
	if err != nil {
		return err
	}

	return renderPoints(points)
}

func renderPoints(points []types.AggregatedDataPoint) error {
	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tPOPULATION\tTOTAL\tPER CAPITA")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			p.Code, p.Name, p.Population,
			p.TotalAmount.StringFixed(2), p.PerCapitaAmount.StringFixed(4))
	}
	return w.Flush()
}
