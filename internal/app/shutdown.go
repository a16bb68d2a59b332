package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully shuts down the application. Cancellation stops event
// intake; pipeline workers finish in-flight markets before exiting, so a
// proposal transaction already sent is always waited out.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)

	// Cancel context to signal all components
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server
	err := a.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	// Wait for watcher, pipeline, and backfill goroutines
	a.wg.Wait()

	// All producers have returned; the event channel can close now.
	a.watcher.Close()

	// Close storage
	err = a.storage.Close()
	if err != nil {
		a.logger.Error("storage-close-error", zap.Error(err))
	}

	a.dedupCache.Close()
	a.ethClient.Close()

	a.logger.Info("application-shutdown-complete")

	return nil
}
