package sessionstore

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"smart-attendance/internal/ports"
)

// NewFromEnv picks the session backend. REDIS_ADDR selects Redis when the
// server answers a ping; otherwise the JSON file store is used.
func NewFromEnv(ctx context.Context, logger ports.Logger) ports.SessionStore {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return NewFileStore("")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn(ctx, "redis unreachable, falling back to file session store", "addr", addr, "error", err)
		client.Close()
		return NewFileStore("")
	}
	logger.Info(ctx, "using redis session store", "addr", addr)
	return NewRedisStore(client)
}
