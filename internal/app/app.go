package app

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/predico/oracle-pipeline/internal/chainwatch"
	"github.com/predico/oracle-pipeline/internal/oracle"
	"github.com/predico/oracle-pipeline/internal/pipeline"
	"github.com/predico/oracle-pipeline/internal/storage"
	"github.com/predico/oracle-pipeline/internal/submitter"
	"github.com/predico/oracle-pipeline/pkg/cache"
	"github.com/predico/oracle-pipeline/pkg/config"
	"github.com/predico/oracle-pipeline/pkg/healthprobe"
	"github.com/predico/oracle-pipeline/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	ethClient     *ethclient.Client
	watcher       *chainwatch.Watcher
	contract      submitter.Contract
	engine        *oracle.Engine
	subm          *submitter.Submitter
	pool          *pipeline.Pool
	storage       storage.Storage
	dedupCache    cache.Cache
	opts          *Options
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	SkipBackfill bool // start from the live subscription only
}
