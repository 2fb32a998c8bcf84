package bootstrap

import (
	"context"
	"fmt"

	"github.com/ai-creative-studio/studio-backend/config"
	"github.com/ai-creative-studio/studio-backend/internal/storage"
	"github.com/ai-creative-studio/studio-backend/internal/storage/memory"
	"github.com/ai-creative-studio/studio-backend/internal/storage/postgres"
	"github.com/ai-creative-studio/studio-backend/internal/storage/redisstore"
)

// OpenStore builds the configured Store backend, ready to serve: schema
// ensured and the demo user seeded where the backend needs it.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "memory":
		return memory.New(), nil

	case "postgres":
		pool, err := OpenDB(ctx, DBOptions{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		store := postgres.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		if err := store.SeedDemoUser(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("seed demo user: %w", err)
		}
		return store, nil

	case "redis":
		client, err := OpenRedis(ctx, RedisOptions{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		store := redisstore.New(client)
		if err := store.SeedDemoUser(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("seed demo user: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
