package cmd

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/predico/oracle-pipeline/internal/oracle"
	"github.com/predico/oracle-pipeline/internal/pricing"
	"github.com/predico/oracle-pipeline/internal/reasoning"
	"github.com/predico/oracle-pipeline/internal/registry"
	"github.com/predico/oracle-pipeline/internal/storage"
	"github.com/predico/oracle-pipeline/internal/submitter"
	"github.com/predico/oracle-pipeline/pkg/config"
	"go.uber.org/zap"
)

// buildResolutionChain wires the contract client, resolution engine, and
// audit storage for the one-shot commands. The daemon does the same wiring
// through the app package.
func buildResolutionChain(
	cfg *config.Config,
	logger *zap.Logger,
	client *ethclient.Client,
) (submitter.Contract, *oracle.Engine, storage.Storage, error) {
	assetRegistry, err := registry.Load(cfg.AssetsFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load asset registry: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.OracleKey, "0x"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse oracle private key: %w", err)
	}

	contract, err := submitter.NewContract(&submitter.ContractConfig{
		Backend:    client,
		Address:    common.HexToAddress(cfg.ContractAddress),
		PrivateKey: privateKey,
		ChainID:    uint64(cfg.ChainID),
		WaitTime:   cfg.SubmitWait,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create contract client: %w", err)
	}

	completer := reasoning.NewCompleter(cfg.AnthropicAPIKey, cfg.ReasoningModel, cfg.ReasoningTimeout, logger)

	engine := oracle.New(&oracle.Config{
		Classifier: reasoning.NewClassifier(completer, logger),
		Extractor:  reasoning.NewExtractor(completer, assetRegistry, logger),
		Quotes: pricing.New(&pricing.Config{
			PythBaseURL: cfg.PythBaseURL,
			DIABaseURL:  cfg.DIABaseURL,
			BatchSize:   cfg.PriceBatchSize,
			Timeout:     cfg.PriceTimeout,
			Registry:    assetRegistry,
			Logger:      logger,
		}),
		Financial: reasoning.NewFinancialReasoner(completer, logger),
		Events:    reasoning.NewEventReasoner(completer, logger),
		Logger:    logger,
	})

	var store storage.Storage
	if cfg.StorageMode == "postgres" {
		store, err = storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create postgres storage: %w", err)
		}
	} else {
		store = storage.NewConsoleStorage(logger)
	}

	return contract, engine, store, nil
}

func buildSubmitter(
	cfg *config.Config,
	logger *zap.Logger,
	contract submitter.Contract,
	engine *oracle.Engine,
	store storage.Storage,
) *submitter.Submitter {
	return submitter.New(&submitter.Config{
		Contract:        contract,
		Resolver:        engine,
		Storage:         store,
		EvidenceBaseURL: cfg.EvidenceBaseURL,
		Logger:          logger,
	})
}
