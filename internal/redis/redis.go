package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jeffreyotan/fsdfinal/internal/logger"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"
)

type Client struct {
	*goredis.Client
}

// New connects to Redis, retrying the initial ping with exponential backoff
// until ctx is done or the retry budget runs out.
func New(ctx context.Context, addr, password string) (*Client, error) {

	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second

	err := backoff.RetryNotify(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		logger.Warn("redis not ready, retrying", map[string]any{
			"addr":  addr,
			"error": err.Error(),
			"wait":  wait.String(),
		})
	})

	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}

	return &Client{Client: client}, nil

}
