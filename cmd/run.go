package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/predico/oracle-pipeline/internal/app"
	"github.com/predico/oracle-pipeline/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the oracle resolution pipeline",
	Long: `Starts the oracle resolution pipeline, which will:
1. Backfill historical MarketClosed events from the configured start block
2. Subscribe to new MarketClosed events over the chain websocket
3. Resolve each closed market through the classification and evidence chain
4. Propose outcomes on-chain for markets still awaiting a proposal

Use --skip-backfill to start from the live subscription only.`,
	RunE: runPipeline,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("skip-backfill", false, "Skip the historical backfill pass")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	err := godotenv.Load()
	if err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	// Load config
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create logger
	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	skipBackfill, _ := cmd.Flags().GetBool("skip-backfill")

	opts := &app.Options{
		SkipBackfill: skipBackfill,
	}

	application, err := app.New(cfg, logger, opts)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	// Run app
	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
