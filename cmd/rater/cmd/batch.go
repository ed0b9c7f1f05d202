// Package cmd - batch command
package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/warp/rating-engine/api"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [requests.json]",
	Short: "Rate a file of quote requests",
	Long: `Rate every request in a JSON array against the configured filing.

Each element uses the same shape as POST /api/quotes. Failures are
reported per request; the command exits non-zero if any request failed.

Examples:
  rater batch requests.json
  rater batch --rates rates.json --factors factors.csv requests.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read batch file: %w", err)
	}
	var requests []api.QuoteRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(requests) == 0 {
		return fmt.Errorf("batch file contains no requests")
	}

	engine, err := loadEngine()
	if err != nil {
		return err
	}

	var failed int
	var grandTotal int64
	for i, req := range requests {
		result, err := rateOne(engine, req)
		if err != nil {
			failed++
			fmt.Printf("request %d: FAILED: %v\n", i, err)
			continue
		}
		grandTotal += result.Total
		fmt.Printf("request %d: $%d\n", i, result.Total)
	}

	fmt.Printf("\n%d rated, %d failed, combined premium $%d\n",
		len(requests)-failed, failed, grandTotal)

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(requests))
	}
	return nil
}
