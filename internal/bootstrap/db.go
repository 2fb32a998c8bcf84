package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultConnectTimeout = 5 * time.Second
	defaultPingTimeout    = 2 * time.Second
)

// DBOptions configures the Postgres pool. Zero timeouts fall back to the
// package defaults.
type DBOptions struct {
	DSN            string
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
}

// OpenDB opens a pgx pool and verifies it with a bounded ping.
func OpenDB(ctx context.Context, opt DBOptions) (*pgxpool.Pool, error) {
	if opt.DSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}
	if opt.ConnectTimeout == 0 {
		opt.ConnectTimeout = defaultConnectTimeout
	}
	if opt.PingTimeout == 0 {
		opt.PingTimeout = defaultPingTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.New(cctx, opt.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTimeout)
	defer pcancel()

	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return pool, nil
}
