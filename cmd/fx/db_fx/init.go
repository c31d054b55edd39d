package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"concierge/internal/config"
	"concierge/internal/infra"
	"concierge/internal/repositories"
)

var Module = fx.Provide(
	provideDB,
	repositories.NewChatRepository,
)

func provideDB(lc fx.Lifecycle, cfg config.Config) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return infra.Migrate(ctx, db)
		},
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db, nil
}
