package service

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/repository"
	"fmt"
)

// HistoryService defines read access to completed games.
type HistoryService interface {
	History(ctx context.Context) (game.History, error)
}

type historyService struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(historyRepo repository.HistoryRepository) HistoryService {
	return &historyService{historyRepo: historyRepo}
}

// History returns the retained records, most recent first, with the
// lifetime totals.
func (s *historyService) History(ctx context.Context) (game.History, error) {
	h, err := s.historyRepo.Load(ctx)
	if err != nil {
		return game.History{}, fmt.Errorf("failed to load history: %w", err)
	}
	if h.Records == nil {
		h.Records = []game.GameRecord{}
	}
	return h, nil
}
