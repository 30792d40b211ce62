package locking

import (
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/brandloom/brandloom/internal/config"
)

var Module = fx.Module("locking",
	fx.Provide(NewRedisClient),
	fx.Provide(NewLocker),
)

// NewRedisClient returns nil when no redis address is configured; the Locker
// degrades to a no-op in that case.
func NewRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
