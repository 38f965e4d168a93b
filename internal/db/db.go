package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS game_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		winner_name TEXT,
		player1_name TEXT NOT NULL,
		player2_name TEXT NOT NULL,
		played_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS game_stats (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		total_games INTEGER NOT NULL DEFAULT 0,
		total_draws INTEGER NOT NULL DEFAULT 0
	)`,
	`INSERT OR IGNORE INTO game_stats (id, total_games, total_draws) VALUES (1, 0, 0)`,
}

// LocalConnect opens the SQLite database at dbPath and checks that it is
// reachable. SQLite allows a single writer, so the pool is capped at one
// connection.
func LocalConnect(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database connection: %w", err)
	}
	pool.SetMaxOpenConns(1)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping local database: %w", err)
	}
	slog.InfoContext(ctx, "Connected to local database", "db.path", dbPath)
	return pool, nil
}

// InitializeDB creates the history tables if they do not exist.
func InitializeDB(ctx context.Context, conn *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	slog.InfoContext(ctx, "DB schema verified.")
	return nil
}
