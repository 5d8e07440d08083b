package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/doccart/pkg/config"
	"github.com/angelmondragon/doccart/pkg/db"
	"github.com/angelmondragon/doccart/pkg/logger"
)

// MaybeRunDev prepares the schema at boot. Sqlite databases always get the
// sqlite schema. Postgres gets the embedded goose migrations only in dev with
// the auto-migrate flag enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	useSQLite := cfg.FeatureFlags.UseSQLite
	if !useSQLite && (!cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate) {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	if useSQLite {
		if err := EnsureSQLiteSchema(ctx, sqlDB); err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "sqlite schema ready")
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": embeddedDir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
