// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the background workers and tears down DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if svc != nil {
		if svc.monitor != nil {
			svc.monitor.Stop()
		}
		if svc.runner != nil {
			svc.runner.Stop()
		}
	}

	if deps.EzzdayMongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.EzzdayMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
