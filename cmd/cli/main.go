// Package main is the entry point for the budget-analytics CLI.
package main

import (
	"os"

	"budget-analytics/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
