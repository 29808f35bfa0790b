// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.MediaType == "local" {
		if err := os.MkdirAll(appCfg.MediaLocalPath, 0o755); err != nil {
			return fmt.Errorf("create media dir: %w", err)
		}
	}

	if appCfg.WebhookSecret == "" {
		logger.Warn("webhook secret not configured; identity webhook will reject all events")
	}

	logger.Info("learnhub starting",
		zap.String("env", coreCfg.Env),
		zap.String("media_type", appCfg.MediaType))
	return nil
}
