// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
//
// TeamHub promotes the configured superadmin account here so a fresh
// deployment always has at least one admin who can approve signups.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)
	u, err := users.GetByEmail(ctx, appCfg.SuperAdminEmail)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.Warn("superadmin account not found; create it via signup and restart",
				zap.String("email", appCfg.SuperAdminEmail))
			return nil
		}
		return err
	}

	if u.IsAdmin && u.IsActive && !u.IsRequest {
		return nil
	}
	if err := users.SetActive(ctx, u.ID, true); err != nil {
		return err
	}
	if err := users.SetAdmin(ctx, u.ID, true); err != nil {
		return err
	}
	logger.Info("superadmin promoted",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))
	return nil
}
