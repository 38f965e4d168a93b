package repository

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// recordRow maps a game_records row.
type recordRow struct {
	ID          int64          `db:"id"`
	WinnerName  sql.NullString `db:"winner_name"`
	Player1Name string         `db:"player1_name"`
	Player2Name string         `db:"player2_name"`
	PlayedAt    string         `db:"played_at"`
}

type sqliteHistoryRepository struct {
	db    *sqlx.DB
	limit int
}

// NewSQLiteHistoryRepository creates a SQLite-based HistoryRepository. The
// schema must already exist (see db.InitializeDB).
func NewSQLiteHistoryRepository(db *sqlx.DB, limit int) HistoryRepository {
	return &sqliteHistoryRepository{db: db, limit: normalizeLimit(limit)}
}

// Record inserts rec, deletes rows that fell out of the window and bumps the
// counters in one transaction.
func (r *sqliteHistoryRepository) Record(ctx context.Context, rec game.GameRecord) (err error) {
	ctx, span := tracer.Start(ctx, "HistoryRepository.Record", trace.WithAttributes(
		attribute.String("history.backend", "sqlite"),
		attribute.Bool("game.draw", rec.IsDraw()),
	))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to record game in sqlite")
		}
	}()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var winner sql.NullString
	if rec.WinnerName != nil {
		winner = sql.NullString{String: *rec.WinnerName, Valid: true}
	}
	insert := `INSERT INTO game_records (winner_name, player1_name, player2_name, played_at) VALUES (?, ?, ?, ?)`
	if _, err = tx.ExecContext(ctx, insert, winner, rec.Player1Name, rec.Player2Name, rec.Timestamp.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to insert game record: %w", err)
	}

	trim := `DELETE FROM game_records WHERE id NOT IN (SELECT id FROM game_records ORDER BY id DESC LIMIT ?)`
	if _, err = tx.ExecContext(ctx, trim, r.limit); err != nil {
		return fmt.Errorf("failed to trim game records: %w", err)
	}

	draws := 0
	if rec.IsDraw() {
		draws = 1
	}
	bump := `UPDATE game_stats SET total_games = total_games + 1, total_draws = total_draws + ? WHERE id = 1`
	if _, err = tx.ExecContext(ctx, bump, draws); err != nil {
		return fmt.Errorf("failed to update game stats: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit game record: %w", err)
	}
	return nil
}

// Load returns the retained records, newest first, with the counters.
func (r *sqliteHistoryRepository) Load(ctx context.Context) (game.History, error) {
	ctx, span := tracer.Start(ctx, "HistoryRepository.Load", trace.WithAttributes(
		attribute.String("history.backend", "sqlite"),
	))
	defer span.End()

	var rows []recordRow
	query := `SELECT id, winner_name, player1_name, player2_name, played_at FROM game_records ORDER BY id DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &rows, query, r.limit); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load game records")
		return game.History{}, fmt.Errorf("failed to load game records: %w", err)
	}

	records := make([]game.GameRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			span.RecordError(err)
			return game.History{}, err
		}
		records = append(records, rec)
	}

	var stats game.Stats
	if err := r.db.GetContext(ctx, &stats, `SELECT total_games, total_draws FROM game_stats WHERE id = 1`); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load game stats")
		return game.History{}, fmt.Errorf("failed to load game stats: %w", err)
	}
	return game.History{Records: records, Stats: stats}, nil
}

func (row recordRow) toRecord() (game.GameRecord, error) {
	playedAt, err := time.Parse(time.RFC3339Nano, row.PlayedAt)
	if err != nil {
		return game.GameRecord{}, fmt.Errorf("failed to parse played_at of record %d: %w", row.ID, err)
	}
	rec := game.GameRecord{
		Player1Name: row.Player1Name,
		Player2Name: row.Player2Name,
		Timestamp:   playedAt,
	}
	if row.WinnerName.Valid {
		name := row.WinnerName.String
		rec.WinnerName = &name
	}
	return rec, nil
}
