package repository

import (
	"context"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/db"
	"fmt"
	"log/slog"
)

// OpenHistory builds the HistoryRepository selected by cfg.Backend. The
// returned close func releases the underlying connection.
func OpenHistory(ctx context.Context, cfg config.History) (HistoryRepository, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		slog.InfoContext(ctx, "Using in-memory history", "history.limit", cfg.Limit)
		return NewMemoryHistoryRepository(cfg.Limit), func() error { return nil }, nil

	case config.BackendSQLite:
		conn, err := db.LocalConnect(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.InitializeDB(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return NewSQLiteHistoryRepository(conn, cfg.Limit), conn.Close, nil

	case config.BackendRedis:
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "Connected to redis", "redis.addr", cfg.RedisAddr)
		return NewRedisHistoryRepository(rdb, cfg.Limit), rdb.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
