package memcache_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"homematch/internal/config"
	mem "homematch/pkg/memcache"
)

var Module = fx.Provide(provideCacheStore)

// provideCacheStore picks the cache backend from config. Badger is closed
// when the app stops.
func provideCacheStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (mem.Store, error) {
	if cfg.CacheBackend != config.CacheBackendBadger {
		logger.Info("using in-process memory cache")
		return mem.NewMemoryStore(), nil
	}

	db, err := mem.OpenBadger(cfg.BadgerPath)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	logger.Info("using badger cache", zap.String("path", cfg.BadgerPath))
	return mem.NewBadgerStore(db, logger), nil
}
