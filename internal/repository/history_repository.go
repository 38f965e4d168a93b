package repository

import (
	"context"
	"ctchen222/tictactoe/internal/game"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository.history")

// HistoryRepository stores completed games. Record appends a record and
// bumps the lifetime counters in one atomic step; Load returns the retained
// records, most recent first.
type HistoryRepository interface {
	Record(ctx context.Context, rec game.GameRecord) error
	Load(ctx context.Context) (game.History, error)
}

//go:generate mockgen -destination=mocks/mock_history_repository.go -package=mocks . HistoryRepository

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return game.MaxHistoryRecords
	}
	return limit
}
