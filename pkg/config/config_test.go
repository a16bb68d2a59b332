package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CHAIN_RPC_URL", "wss://sepolia.example.org")
	t.Setenv("MARKET_CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected HTTPPort 8080, got %s", cfg.HTTPPort)
	}
	if cfg.ChainID != 11155111 {
		t.Errorf("expected Sepolia chain id, got %d", cfg.ChainID)
	}
	if cfg.BackfillChunkSize != 500 {
		t.Errorf("expected BackfillChunkSize 500, got %d", cfg.BackfillChunkSize)
	}
	if cfg.PriceBatchSize != 50 {
		t.Errorf("expected PriceBatchSize 50, got %d", cfg.PriceBatchSize)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.StorageMode != "console" {
		t.Errorf("expected console storage, got %s", cfg.StorageMode)
	}
	if cfg.DedupTTL != 2*time.Minute {
		t.Errorf("expected 2m dedup TTL, got %v", cfg.DedupTTL)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BACKFILL_CHUNK_SIZE", "250")
	t.Setenv("PIPELINE_WORKERS", "8")
	t.Setenv("REASONING_TIMEOUT", "45s")
	t.Setenv("STORAGE_MODE", "postgres")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.BackfillChunkSize != 250 {
		t.Errorf("expected BackfillChunkSize 250, got %d", cfg.BackfillChunkSize)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Workers)
	}
	if cfg.ReasoningTimeout != 45*time.Second {
		t.Errorf("expected 45s reasoning timeout, got %v", cfg.ReasoningTimeout)
	}
	if cfg.StorageMode != "postgres" {
		t.Errorf("expected postgres storage, got %s", cfg.StorageMode)
	}
}

func TestLoadFromEnv_InvalidValuesFallBackToDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PIPELINE_WORKERS", "not-a-number")
	t.Setenv("PRICE_TIMEOUT", "soon")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Workers != 4 {
		t.Errorf("expected default workers, got %d", cfg.Workers)
	}
	if cfg.PriceTimeout != 10*time.Second {
		t.Errorf("expected default price timeout, got %v", cfg.PriceTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{
			name:    "valid",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "missing-rpc-url",
			mutate:  func(cfg *Config) { cfg.ChainRPCURL = "" },
			wantErr: true,
		},
		{
			name:    "missing-contract",
			mutate:  func(cfg *Config) { cfg.ContractAddress = "" },
			wantErr: true,
		},
		{
			name:    "invalid-contract-address",
			mutate:  func(cfg *Config) { cfg.ContractAddress = "not-an-address" },
			wantErr: true,
		},
		{
			name:    "zero-chunk-size",
			mutate:  func(cfg *Config) { cfg.BackfillChunkSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative-batch-size",
			mutate:  func(cfg *Config) { cfg.PriceBatchSize = -1 },
			wantErr: true,
		},
		{
			name:    "zero-workers",
			mutate:  func(cfg *Config) { cfg.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "bad-storage-mode",
			mutate:  func(cfg *Config) { cfg.StorageMode = "redis" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				HTTPPort:          "8080",
				ChainRPCURL:       "wss://sepolia.example.org",
				ContractAddress:   "0x5FbDB2315678afecb367f032d93F642f64180aa3",
				BackfillChunkSize: 500,
				PriceBatchSize:    50,
				Workers:           4,
				StorageMode:       "console",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("default-level", func(t *testing.T) {
		os.Unsetenv("LOG_LEVEL")
		logger, err := NewLogger()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logger == nil {
			t.Fatal("expected non-nil logger")
		}
	})

	t.Run("debug-level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		_, err := NewLogger()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("invalid-level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")
		_, err := NewLogger()
		if err == nil {
			t.Error("expected an error")
		}
	})
}
