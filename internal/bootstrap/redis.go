package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis client. A zero ping timeout falls back
// to the package default.
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	PingTimeout time.Duration
}

func OpenRedis(ctx context.Context, opt RedisOptions) (*redis.Client, error) {
	if opt.Addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is not set")
	}
	if opt.PingTimeout == 0 {
		opt.PingTimeout = defaultPingTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, opt.PingTimeout)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
