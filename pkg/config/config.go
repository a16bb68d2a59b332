package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config holds all application configuration. It is constructed once at
// process start and passed by reference into every component; no ambient
// globals.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Chain
	ChainRPCURL     string // websocket endpoint; used for reads, logs and subscriptions
	ContractAddress string
	ChainID         int64
	OracleKey       string // hex private key of the proposer account
	EvidenceBaseURL string // optional; "" means empty evidenceURI on proposals

	// Backfill
	BackfillStartBlock uint64
	BackfillChunkSize  uint64
	BackfillMaxRetries int
	BackfillRetryDelay time.Duration
	BackfillRetryMax   time.Duration

	// Reasoning service
	AnthropicAPIKey  string
	ReasoningModel   string
	ReasoningTimeout time.Duration

	// Price providers
	PythBaseURL    string
	DIABaseURL     string
	PriceBatchSize int
	PriceTimeout   time.Duration

	// Pipeline
	Workers      int
	QueueSize    int
	DedupTTL     time.Duration
	SubmitWait   time.Duration // receipt confirmation budget
	AssetsFile   string        // symbol -> feed-identifier registry
	ResolveLimit time.Duration // overall per-market resolution budget

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Chain
		ChainRPCURL:     os.Getenv("CHAIN_RPC_URL"),
		ContractAddress: os.Getenv("MARKET_CONTRACT_ADDRESS"),
		ChainID:         int64(getIntOrDefault("CHAIN_ID", 11155111)), // Sepolia
		OracleKey:       os.Getenv("ORACLE_PRIVATE_KEY"),
		EvidenceBaseURL: os.Getenv("EVIDENCE_BASE_URL"),

		// Backfill
		BackfillStartBlock: getUint64OrDefault("BACKFILL_START_BLOCK", 0),
		BackfillChunkSize:  getUint64OrDefault("BACKFILL_CHUNK_SIZE", 500),
		BackfillMaxRetries: getIntOrDefault("BACKFILL_MAX_RETRIES", 3),
		BackfillRetryDelay: getDurationOrDefault("BACKFILL_RETRY_DELAY", 1*time.Second),
		BackfillRetryMax:   getDurationOrDefault("BACKFILL_RETRY_MAX_DELAY", 30*time.Second),

		// Reasoning
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		ReasoningModel:   getEnvOrDefault("REASONING_MODEL", "claude-sonnet-4-5-20250929"),
		ReasoningTimeout: getDurationOrDefault("REASONING_TIMEOUT", 90*time.Second),

		// Price providers
		PythBaseURL:    getEnvOrDefault("PYTH_BASE_URL", "https://hermes.pyth.network"),
		DIABaseURL:     getEnvOrDefault("DIA_BASE_URL", "https://api.diadata.org"),
		PriceBatchSize: getIntOrDefault("PRICE_BATCH_SIZE", 50),
		PriceTimeout:   getDurationOrDefault("PRICE_TIMEOUT", 10*time.Second),

		// Pipeline
		Workers:      getIntOrDefault("PIPELINE_WORKERS", 4),
		QueueSize:    getIntOrDefault("PIPELINE_QUEUE_SIZE", 256),
		DedupTTL:     getDurationOrDefault("PIPELINE_DEDUP_TTL", 2*time.Minute),
		SubmitWait:   getDurationOrDefault("SUBMIT_CONFIRM_TIMEOUT", 2*time.Minute),
		AssetsFile:   getEnvOrDefault("ASSET_REGISTRY_FILE", "crypto_feeds.json"),
		ResolveLimit: getDurationOrDefault("RESOLVE_TIMEOUT", 5*time.Minute),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "oracle"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "oracle"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "oracle_pipeline"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.ChainRPCURL == "" {
		return fmt.Errorf("CHAIN_RPC_URL cannot be empty")
	}

	if c.ContractAddress == "" {
		return fmt.Errorf("MARKET_CONTRACT_ADDRESS cannot be empty")
	}

	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("MARKET_CONTRACT_ADDRESS is not a valid address: %q", c.ContractAddress)
	}

	if c.BackfillChunkSize == 0 {
		return fmt.Errorf("BACKFILL_CHUNK_SIZE must be positive")
	}

	if c.PriceBatchSize <= 0 {
		return fmt.Errorf("PRICE_BATCH_SIZE must be positive, got %d", c.PriceBatchSize)
	}

	if c.Workers <= 0 {
		return fmt.Errorf("PIPELINE_WORKERS must be positive, got %d", c.Workers)
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getUint64OrDefault(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	uintVal, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return uintVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
