package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "oracle-pipeline",
	Short: "AI oracle resolution pipeline for on-chain prediction markets",
	Long: `Oracle resolution pipeline that watches a prediction market contract
for closed markets, classifies each question, gathers price or web evidence,
and proposes a resolution outcome back on-chain.

The pipeline backfills historical MarketClosed events, subscribes to new
ones, and resolves each market through an LLM-driven evidence chain with
multi-provider price corroboration for financial questions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
