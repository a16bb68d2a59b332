package cmd

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/predico/oracle-pipeline/pkg/config"
	"github.com/predico/oracle-pipeline/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	resolveMarketID uint64
	resolveDryRun   bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a single market by id",
	Long: `Resolves one market through the full classification and evidence chain.

In dry-run mode the verdict is printed without any on-chain write; otherwise
the outcome is proposed on-chain if the market is still awaiting a proposal.

Example:
  # Preview the verdict for market 42
  oracle-pipeline resolve --id 42 --dry-run

  # Resolve and propose on-chain
  oracle-pipeline resolve --id 42`,
	RunE: runResolve,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Uint64Var(&resolveMarketID, "id", 0, "Market id to resolve (required)")
	resolveCmd.Flags().BoolVar(&resolveDryRun, "dry-run", false, "Print the verdict without submitting on-chain")
	_ = resolveCmd.MarkFlagRequired("id")
}

func runResolve(cmd *cobra.Command, args []string) error {
	err := godotenv.Load()
	if err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()

	client, err := ethclient.DialContext(ctx, cfg.ChainRPCURL)
	if err != nil {
		return fmt.Errorf("dial chain rpc: %w", err)
	}
	defer client.Close()

	contract, engine, store, err := buildResolutionChain(cfg, logger, client)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	market, err := contract.Market(ctx, resolveMarketID)
	if err != nil {
		return fmt.Errorf("read market %d: %w", resolveMarketID, err)
	}

	fmt.Printf("Market %d [%s]\n", market.ID, market.Status)
	fmt.Printf("Question: %s\n\n", market.Question)

	if resolveDryRun {
		outcome := engine.Resolve(ctx, market.Question)

		fmt.Printf("Domain:    %s\n", outcome.Domain)
		fmt.Printf("Abstained: %t\n", outcome.Abstained)
		if outcome.Decision != nil {
			fmt.Printf("Answer:      %t\n", outcome.Decision.Answer)
			fmt.Printf("Confidence:  %.2f\n", outcome.Decision.Confidence)
			fmt.Printf("Explanation: %s\n", outcome.Decision.Explanation)
		}
		fmt.Printf("\nDry run: nothing submitted on-chain\n")
		return nil
	}

	subm := buildSubmitter(cfg, logger, contract, engine, store)

	result, err := subm.Process(ctx, types.MarketRef{ID: resolveMarketID, Question: market.Question})
	if err != nil {
		return fmt.Errorf("process market %d: %w", resolveMarketID, err)
	}

	fmt.Printf("Result: %s\n", result)
	return nil
}
