package app

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("contract", a.cfg.ContractAddress),
		zap.Int64("chain-id", a.cfg.ChainID),
		zap.String("log-level", a.cfg.LogLevel))

	a.startComponents()

	// Mark as ready
	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort),
		zap.Int("workers", a.cfg.Workers))

	// Wait for shutdown signal
	return a.waitForShutdown()
}

func (a *App) startComponents() {
	// Start HTTP server
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Start live subscription; the pipeline consumes its event channel
	a.wg.Add(1)
	go a.runWatcher()

	a.wg.Add(1)
	go a.runPipeline()

	// Replay historical events behind the live subscription
	if !a.opts.SkipBackfill {
		a.wg.Add(1)
		go a.runBackfill()
	}
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) runWatcher() {
	defer a.wg.Done()
	err := a.watcher.Run(a.ctx)
	if err != nil && !errors.Is(err, a.ctx.Err()) {
		a.logger.Error("watcher-error", zap.Error(err))
	}
}

func (a *App) runPipeline() {
	defer a.wg.Done()
	a.pool.Run(a.ctx, a.watcher.Events())
}

func (a *App) runBackfill() {
	defer a.wg.Done()
	err := a.watcher.Backfill(a.ctx, a.cfg.BackfillStartBlock)
	if err != nil && !errors.Is(err, a.ctx.Err()) {
		a.logger.Error("backfill-error", zap.Error(err))
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
