// Package cmd provides the CLI commands for budget-analytics.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"budget-analytics/internal/config"
	"budget-analytics/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "budget-analytics",
	Short: "Query aggregated public-budget execution data",
	Long: `budget-analytics answers aggregate analytical queries against a
relational store of itemized public-budget execution records.

Filters are declarative JSON documents; amounts can be inflation-adjusted,
currency-converted and divided per capita.

Examples:
  budget-analytics heatmap --filter filter.json
  budget-analytics heatmap --scope uat --normalization total_euro --filter filter.json
  budget-analytics config show`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON or HCL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}
