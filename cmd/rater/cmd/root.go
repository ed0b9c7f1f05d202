// Package cmd provides the CLI commands for the rater tool.
//
// The CLI rates quotes offline against a rate filing and factor
// spreadsheet on disk, without a running server. Actuarial staff use it
// to validate filings and to reproduce quote traces.
package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/rating-engine/factory"
	"github.com/warp/rating-engine/logging"
	"github.com/warp/rating-engine/rating"
)

var (
	ratesPath   string
	factorsPath string
	verbose     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rater",
	Short: "Rate auto insurance quotes from the command line",
	Long: `rater computes exact auto premiums against a rate filing and factor
spreadsheet, with the full calculation trace.

Without --rates/--factors it uses the built-in demo configuration.

Examples:
  rater quote request.json
  rater quote --rates rates.json --factors factors.csv request.json
  rater batch requests.json
  rater validate --rates rates.json --factors factors.csv`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&ratesPath, "rates", "", "rate filing JSON file (default: built-in demo)")
	rootCmd.PersistentFlags().StringVar(&factorsPath, "factors", "", "factor spreadsheet CSV file (default: built-in demo)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(validateCmd)
}

func initLogging() {
	cfg := logging.DefaultConfig()
	if verbose {
		cfg.Level = "debug"
	} else {
		cfg.Level = "warn"
	}
	if err := logging.Initialize(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadEngine builds an engine from the --rates/--factors flags, falling
// back to the demo configuration when a flag is unset.
func loadEngine() (*rating.Engine, error) {
	rates := factory.StandardRateTableJSON()
	if ratesPath != "" {
		data, err := os.ReadFile(ratesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read rates file: %w", err)
		}
		rates = data
	}

	factors := factory.StandardFactorsCSV()
	if factorsPath != "" {
		data, err := os.ReadFile(factorsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read factors file: %w", err)
		}
		factors = data
	}

	table, err := factory.ParseRateTable(rates)
	if err != nil {
		return nil, err
	}
	engine, err := factory.ParseFactorsCSV(bytes.NewReader(factors))
	if err != nil {
		return nil, err
	}
	return rating.NewEngine(table, engine), nil
}
