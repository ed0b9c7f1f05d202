// Package cmd - quote command
package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/warp/rating-engine/api"
	"github.com/warp/rating-engine/auto"
	"github.com/warp/rating-engine/rating"
)

var (
	outputFormat string
	showTrace    bool
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote [request.json]",
	Short: "Rate a single quote request",
	Long: `Rate one quote request against the configured filing.

The request file uses the same JSON shape as POST /api/quotes.

Examples:
  rater quote request.json
  rater quote --format json request.json
  rater quote --trace request.json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	quoteCmd.Flags().BoolVarP(&showTrace, "trace", "t", false, "print the full calculation trace")
}

func runQuote(cmd *cobra.Command, args []string) error {
	req, err := readRequest(args[0])
	if err != nil {
		return err
	}

	engine, err := loadEngine()
	if err != nil {
		return err
	}

	result, err := rateOne(engine, req)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		dto := toOutputDTO(result)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dto)
	}

	printResult(result)
	return nil
}

func readRequest(path string) (api.QuoteRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.QuoteRequest{}, fmt.Errorf("failed to read request file: %w", err)
	}
	var req api.QuoteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return api.QuoteRequest{}, fmt.Errorf("failed to parse request file: %w", err)
	}
	return req, nil
}

func rateOne(engine *rating.Engine, req api.QuoteRequest) (*rating.PremiumResult, error) {
	coverages, vehicle, drivers, policy, err := req.ToDomain()
	if err != nil {
		return nil, err
	}
	quoter := auto.NewQuoter(rating.NewProvider(engine))
	return quoter.CalculateTotalPremium(coverages, vehicle, drivers, policy)
}

func printResult(result *rating.PremiumResult) {
	fmt.Printf("Policy term: %s to %s\n", result.Term.Effective, result.Term.Expiry)
	for _, y := range result.Years {
		fmt.Printf("  year %d: %s to %s (fraction %s, rates as of %s)\n",
			y.Index, y.Start, y.End, y.Fraction, y.AsOf)
	}
	fmt.Println()

	for _, cov := range result.Coverages {
		fmt.Printf("%-5s $%d\n", cov.Coverage, cov.Premium)
		for _, y := range cov.Years {
			fmt.Printf("      year %d: $%d (as of %s)\n", y.YearIndex, y.Premium, y.AsOf)
		}
		if showTrace {
			for _, step := range cov.Trace {
				fmt.Printf("      [y%d] %-40s -> %s (%s)\n",
					step.PolicyYear, step.Description, step.Output, step.Precision)
			}
		}
	}
	fmt.Printf("\nTotal premium: $%d\n", result.Total)
}

// toOutputDTO reuses the API projection so CLI and server emit the
// same document for the same quote.
func toOutputDTO(result *rating.PremiumResult) api.QuoteDTO {
	return api.ToQuoteDTO("", result)
}
