// Package main is the entry point for the rater CLI.
package main

import (
	"os"

	"github.com/warp/rating-engine/cmd/rater/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
