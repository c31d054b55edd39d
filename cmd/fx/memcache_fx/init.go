package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"concierge/internal/config"
	"concierge/internal/infra"
	mem "concierge/pkg/memcache"
)

var Module = fx.Provide(provideStore)

// provideStore shares the cache through Redis when REDIS_ADDR is set and
// falls back to process memory otherwise.
func provideStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) mem.Store {
	if cfg.RedisAddr == "" {
		logger.Info("using in-process cache")
		return mem.NewLocalStore(cfg.Location.CacheTTL, 10*time.Minute)
	}

	client := infra.NewRedis(cfg.RedisAddr)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis not reachable, cache reads will miss", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return mem.NewRedisStore(client, "concierge:", logger)
}
