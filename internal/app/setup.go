package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/predico/oracle-pipeline/internal/chainwatch"
	"github.com/predico/oracle-pipeline/internal/oracle"
	"github.com/predico/oracle-pipeline/internal/pipeline"
	"github.com/predico/oracle-pipeline/internal/pricing"
	"github.com/predico/oracle-pipeline/internal/reasoning"
	"github.com/predico/oracle-pipeline/internal/registry"
	"github.com/predico/oracle-pipeline/internal/storage"
	"github.com/predico/oracle-pipeline/internal/submitter"
	"github.com/predico/oracle-pipeline/pkg/cache"
	"github.com/predico/oracle-pipeline/pkg/config"
	"github.com/predico/oracle-pipeline/pkg/healthprobe"
	"github.com/predico/oracle-pipeline/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := setupHealthChecker()

	dedupCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	assetRegistry, err := registry.Load(cfg.AssetsFile)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("load asset registry: %w", err)
	}

	ethClient, err := setupEthClient(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup eth client: %w", err)
	}

	watcher := setupWatcher(cfg, logger, ethClient)

	contract, err := setupContract(cfg, logger, ethClient)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup contract: %w", err)
	}

	engine := setupEngine(cfg, logger, assetRegistry)

	auditStorage, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	subm := setupSubmitter(cfg, logger, contract, engine, auditStorage)
	pool := setupPool(cfg, logger, subm, dedupCache)
	httpServer := setupHTTPServer(cfg, logger, healthChecker, pool, contract)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		ethClient:     ethClient,
		watcher:       watcher,
		contract:      contract,
		engine:        engine,
		subm:          subm,
		pool:          pool,
		storage:       auditStorage,
		dedupCache:    dedupCache,
		opts:          opts,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000, // 10x expected max tracked markets
		MaxCost:     1000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupEthClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, cfg.ChainRPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial chain rpc: %w", err)
	}

	logger.Info("chain-client-connected", zap.String("rpc-url", cfg.ChainRPCURL))

	return client, nil
}

func setupWatcher(cfg *config.Config, logger *zap.Logger, client chainwatch.ChainBackend) *chainwatch.Watcher {
	return chainwatch.New(&chainwatch.Config{
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
}

func setupContract(cfg *config.Config, logger *zap.Logger, backend submitter.TxBackend) (submitter.Contract, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.OracleKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse oracle private key: %w", err)
	}

	return submitter.NewContract(&submitter.ContractConfig{
		Backend:    backend,
		Address:    common.HexToAddress(cfg.ContractAddress),
		PrivateKey: privateKey,
		ChainID:    uint64(cfg.ChainID),
		WaitTime:   cfg.SubmitWait,
		Logger:     logger,
	})
}

func setupEngine(cfg *config.Config, logger *zap.Logger, assetRegistry *registry.Registry) *oracle.Engine {
	completer := reasoning.NewCompleter(cfg.AnthropicAPIKey, cfg.ReasoningModel, cfg.ReasoningTimeout, logger)

	quotes := pricing.New(&pricing.Config{
		PythBaseURL: cfg.PythBaseURL,
		DIABaseURL:  cfg.DIABaseURL,
		BatchSize:   cfg.PriceBatchSize,
		Timeout:     cfg.PriceTimeout,
		Registry:    assetRegistry,
		Logger:      logger,
	})

	return oracle.New(&oracle.Config{
		Classifier: reasoning.NewClassifier(completer, logger),
		Extractor:  reasoning.NewExtractor(completer, assetRegistry, logger),
		Quotes:     quotes,
		Financial:  reasoning.NewFinancialReasoner(completer, logger),
		Events:     reasoning.NewEventReasoner(completer, logger),
		Logger:     logger,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupSubmitter(
	cfg *config.Config,
	logger *zap.Logger,
	contract submitter.Contract,
	engine *oracle.Engine,
	auditStorage storage.Storage,
) *submitter.Submitter {
	return submitter.New(&submitter.Config{
		Contract:        contract,
		Resolver:        engine,
		Storage:         auditStorage,
		EvidenceBaseURL: cfg.EvidenceBaseURL,
		Logger:          logger,
	})
}

func setupPool(cfg *config.Config, logger *zap.Logger, subm *submitter.Submitter, dedupCache cache.Cache) *pipeline.Pool {
	return pipeline.New(&pipeline.Config{
		Processor:   subm,
		Dedup:       dedupCache,
		DedupTTL:    cfg.DedupTTL,
		Workers:     cfg.Workers,
		TaskTimeout: cfg.ResolveLimit,
		Logger:      logger,
	})
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	pool *pipeline.Pool,
	contract submitter.Contract,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Stats:         pool,
		Markets:       contract,
	})
}
