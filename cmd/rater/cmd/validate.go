// Package cmd - validate command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a rate filing and factor spreadsheet",
	Long: `Parse the configured filing and run static conflict detection.

Reports overlapping rate entries and equal-specificity factor pairs
that would produce an ambiguity at quote time. Exits non-zero if the
filing fails to parse or has conflicts.

Examples:
  rater validate --rates rates.json --factors factors.csv`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine()
	if err != nil {
		return err
	}

	conflicts := engine.Rates.Conflicts()
	conflicts = append(conflicts, engine.Factors.Conflicts()...)

	fmt.Printf("rate entries: %d\n", engine.Rates.Len())
	fmt.Printf("factors:      %d\n", engine.Factors.Len())

	if len(conflicts) == 0 {
		fmt.Println("no conflicts found")
		return nil
	}

	fmt.Printf("\n%d conflicts:\n", len(conflicts))
	for _, c := range conflicts {
		fmt.Printf("  - %s\n", c)
	}
	return fmt.Errorf("filing has %d conflicts", len(conflicts))
}
