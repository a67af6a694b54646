package codestore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sqlCleanupInterval = 5 * time.Minute

type StoreParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *logging.Service
	DB        *gorm.DB              `optional:"true"`
	Redis     redis.UniversalClient `optional:"true"`
}

// ProvideRedisClient builds a client for REDIS_ADDRS; a single address yields a
// plain client, several yield a cluster client.
func ProvideRedisClient(cfg *config.Config) redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func ProvideStore(p StoreParams) (Store, error) {
	logger := p.Logger.Named("codestore")
	backend := p.Config.Verification.Store

	switch backend {
	case config.StoreRedis:
		if p.Redis == nil {
			return nil, fmt.Errorf("redis store selected but no redis client provided")
		}
		store := NewRedisStore(p.Redis)
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := store.Ping(ctx); err != nil {
					logger.Error("redis ping failed", zap.Strings("addrs", p.Config.Redis.Addrs), zap.Error(err))
					return err
				}
				logger.Info("redis code store ready", zap.Strings("addrs", p.Config.Redis.Addrs))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return store.Close()
			},
		})
		return store, nil

	case config.StoreSQL:
		if p.DB == nil {
			return nil, fmt.Errorf("sql store selected but no database provided")
		}
		store := NewSQLStore(p.DB)
		cleanupCtx, cancel := context.WithCancel(context.Background())
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				store.StartCleanup(cleanupCtx, sqlCleanupInterval, func(deleted int64, err error) {
					if err != nil {
						logger.Warn("expired code sweep failed", zap.Error(err))
						return
					}
					if deleted > 0 {
						logger.Debug("expired codes removed", zap.Int64("deleted", deleted))
					}
				})
				logger.Info("sql code store ready", zap.String("driver", p.Config.Database.Driver))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				cancel()
				return nil
			},
		})
		return store, nil

	case config.StoreMemory:
		store := NewMemoryStore()
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				logger.Warn("using in-memory code store, codes are lost on restart and not shared between instances")
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return store.Close()
			},
		})
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported verification store: %s", backend)
	}
}

var Module = fx.Options(
	fx.Provide(ProvideStore),
)

var RedisModule = fx.Options(
	fx.Provide(ProvideRedisClient),
)
