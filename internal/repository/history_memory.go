package repository

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"slices"
	"sync"
)

type memoryHistoryRepository struct {
	mu      sync.Mutex
	limit   int
	records []game.GameRecord // most recent first
	stats   game.Stats
}

// NewMemoryHistoryRepository creates a process-local HistoryRepository that
// keeps at most limit records.
func NewMemoryHistoryRepository(limit int) HistoryRepository {
	return &memoryHistoryRepository{limit: normalizeLimit(limit)}
}

// Record prepends rec and drops the oldest records past the limit.
func (r *memoryHistoryRepository) Record(ctx context.Context, rec game.GameRecord) error {
	_, span := tracer.Start(ctx, "HistoryRepository.Record")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = slices.Insert(r.records, 0, cloneRecord(rec))
	if len(r.records) > r.limit {
		r.records = r.records[:r.limit]
	}
	r.stats.TotalGames++
	if rec.IsDraw() {
		r.stats.TotalDraws++
	}
	return nil
}

// Load returns a copy of the retained records and the counters.
func (r *memoryHistoryRepository) Load(ctx context.Context) (game.History, error) {
	_, span := tracer.Start(ctx, "HistoryRepository.Load")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]game.GameRecord, len(r.records))
	for i, rec := range r.records {
		records[i] = cloneRecord(rec)
	}
	return game.History{Records: records, Stats: r.stats}, nil
}

func cloneRecord(rec game.GameRecord) game.GameRecord {
	if rec.WinnerName != nil {
		name := *rec.WinnerName
		rec.WinnerName = &name
	}
	return rec
}
