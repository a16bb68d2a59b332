package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/predico/oracle-pipeline/internal/chainwatch"
	"github.com/predico/oracle-pipeline/pkg/config"
	"github.com/predico/oracle-pipeline/pkg/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Replay historical MarketClosed events and resolve them",
	Long: `Runs one backfill pass from the configured start block to the current
chain head, resolving every closed market still awaiting a proposal, then
exits. Markets already proposed or resolved are skipped by the on-chain
status gate.

Example:
  # Replay from block 4200000
  BACKFILL_START_BLOCK=4200000 oracle-pipeline backfill

  # Preview which markets would be resolved
  oracle-pipeline backfill --dry-run`,
	RunE: runBackfill,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(backfillCmd)
	backfillCmd.Flags().Bool("dry-run", false, "List closed markets without resolving or submitting")
}

func runBackfill(cmd *cobra.Command, args []string) error {
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

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown-signal-received")
		cancel()
	}()

	client, err := ethclient.DialContext(ctx, cfg.ChainRPCURL)
	if err != nil {
		return fmt.Errorf("dial chain rpc: %w", err)
	}
	defer client.Close()

	watcher := chainwatch.New(&chainwatch.Config{
		Client:    client,
		Contract:  common.HexToAddress(cfg.ContractAddress),
		ChunkSize: cfg.BackfillChunkSize,
		Retry: chainwatch.RetryConfig{
			MaxRetries: cfg.BackfillMaxRetries,
			BaseDelay:  cfg.BackfillRetryDelay,
			MaxDelay:   cfg.BackfillRetryMax,
		},
		BufferSize: cfg.QueueSize,
		Logger:     logger,
	})

	process, cleanup, err := backfillProcessor(cfg, logger, client, dryRun)
	if err != nil {
		return err
	}
	defer cleanup()

	done := make(chan error, 1)
	go func() {
		done <- watcher.Backfill(ctx, cfg.BackfillStartBlock)
	}()

	events := watcher.Events()
	for {
		select {
		case ref := <-events:
			process(ctx, ref)
		case err := <-done:
			if err != nil {
				return fmt.Errorf("backfill: %w", err)
			}
			// Drain events emitted before the pass finished
			watcher.Close()
			for ref := range events {
				process(ctx, ref)
			}
			logger.Info("backfill-pass-finished")
			return nil
		}
	}
}

// backfillProcessor builds the per-market handler for the one-shot pass. In
// dry-run mode it only prints the market record.
func backfillProcessor(
	cfg *config.Config,
	logger *zap.Logger,
	client *ethclient.Client,
	dryRun bool,
) (func(context.Context, types.MarketRef), func(), error) {
	contract, engine, store, err := buildResolutionChain(cfg, logger, client)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
	}

	if dryRun {
		process := func(ctx context.Context, ref types.MarketRef) {
			market, err := contract.Market(ctx, ref.ID)
			if err != nil {
				logger.Error("market-read-failed", zap.Uint64("market-id", ref.ID), zap.Error(err))
				return
			}
			fmt.Printf("market %d [%s]: %s\n", market.ID, market.Status, market.Question)
		}
		return process, cleanup, nil
	}

	subm := buildSubmitter(cfg, logger, contract, engine, store)

	process := func(ctx context.Context, ref types.MarketRef) {
		result, err := subm.Process(ctx, ref)
		if err != nil {
			logger.Error("market-processing-failed", zap.Uint64("market-id", ref.ID), zap.Error(err))
			return
		}
		fmt.Printf("market %d: %s\n", ref.ID, result)
	}
	return process, cleanup, nil
}
