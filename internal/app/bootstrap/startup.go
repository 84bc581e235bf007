// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	profilestore "github.com/viralmotors/platform/internal/app/store/profiles"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// If admin_email is configured and a profile with that email exists, it is
// promoted to the admin role. This bootstraps the first admin without a
// manual database edit.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.ConfigureFromEnv()

	if appCfg.AdminEmail == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	profiles := profilestore.New(deps.MongoDatabase)
	if err := profiles.PromoteAdminByEmail(ctx, appCfg.AdminEmail); err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			// The user hasn't signed in yet; they get promoted on a later restart.
			logger.Info("admin bootstrap: no profile for configured admin email yet",
				zap.String("email", appCfg.AdminEmail))
			return nil
		}
		logger.Error("admin bootstrap failed", zap.Error(err))
		return err
	}

	logger.Info("admin bootstrap: profile promoted to admin",
		zap.String("email", appCfg.AdminEmail))
	return nil
}
