package app

import (
	"context"
	"errors"

	"github.com/jeffreyotan/fsdfinal/internal/config"
	"github.com/jeffreyotan/fsdfinal/internal/db"
	"github.com/jeffreyotan/fsdfinal/internal/logger"
	"github.com/jeffreyotan/fsdfinal/internal/redis"
	"github.com/jeffreyotan/fsdfinal/internal/session"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client // nil when REDIS_ADDR is unset
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, database.DB); err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: database}

	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, revocations are kept in memory", nil)
		return infra, nil
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	infra.Redis = redisClient

	logger.Info("redis ready", map[string]any{
		"addr": cfg.RedisAddr,
	})

	return infra, nil
}

// Denylist returns the Redis denylist when Redis is configured and an
// in-process one otherwise.
func (i *Infra) Denylist() session.Store {
	if i.Redis == nil {
		return session.NewMemoryStore()
	}
	return session.NewRedisStore(i.Redis.Client)
}

func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	errs = append(errs, i.DB.Close())
	return errors.Join(errs...)
}
