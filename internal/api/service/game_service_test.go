package service

import (
	"context"
	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/apperror"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/engine"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/session"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingTokens struct{}

func (failingTokens) Issue(string) (string, error)  { return "", errors.New("signer unavailable") }
func (failingTokens) Verify(string) (string, error) { return "", apperror.ErrInvalidToken }

func humans() *models.NewGameRequest {
	return &models.NewGameRequest{
		Player1: game.PlayerConfig{Name: "Alice", Kind: game.KindHuman},
		Player2: game.PlayerConfig{Name: "Bob", Kind: game.KindHuman},
	}
}

func newGameService(t *testing.T) (GameService, *session.Manager, TokenService) {
	t.Helper()
	manager := session.NewManager(session.Options{Strategy: bot.NewSeededCalculator(5, 6)})
	t.Cleanup(manager.Close)
	tokens := NewTokenService(config.Auth{TokenSecret: "secret", TokenTTL: time.Hour})
	return NewGameService(manager, tokens), manager, tokens
}

func TestGameService_Create(t *testing.T) {
	svc, manager, tokens := newGameService(t)

	resp, err := svc.Create(context.Background(), humans())

	require.NoError(t, err)
	assert.Equal(t, 1, manager.Len())
	assert.Equal(t, engine.PhaseActive, resp.State.Phase)
	assert.Equal(t, "Alice's turn", resp.Label)

	sessionID, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, sessionID)
}

func TestGameService_CreateInvalidPlayers(t *testing.T) {
	svc, manager, _ := newGameService(t)
	req := humans()
	req.Player2.Kind = ""

	_, err := svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, apperror.ErrInvalidPlayerConfig)
	assert.Zero(t, manager.Len())
}

func TestGameService_CreateDropsSessionWhenTokenFails(t *testing.T) {
	manager := session.NewManager(session.Options{Strategy: bot.NewSeededCalculator(5, 6)})
	svc := NewGameService(manager, failingTokens{})

	_, err := svc.Create(context.Background(), humans())

	assert.Error(t, err)
	assert.Zero(t, manager.Len())
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newGameService(t)
	created, err := svc.Create(ctx, humans())
	require.NoError(t, err)

	resp, err := svc.Move(ctx, created.SessionID, 4)

	require.NoError(t, err)
	assert.Equal(t, engine.OutcomeAccepted, resp.Result.Outcome)
	assert.Equal(t, game.PlayerX, resp.State.Board[4])
	assert.Equal(t, "Bob's turn", resp.Label)
}

func TestGameService_MoveErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newGameService(t)
	created, err := svc.Create(ctx, humans())
	require.NoError(t, err)
	_, err = svc.Move(ctx, created.SessionID, 4)
	require.NoError(t, err)

	tests := []struct {
		name      string
		sessionID string
		cell      int
		want      []error
	}{
		{name: "occupied", sessionID: created.SessionID, cell: 4, want: []error{apperror.ErrInvalidMove, apperror.ErrCellOccupied}},
		{name: "out of range", sessionID: created.SessionID, cell: 9, want: []error{apperror.ErrInvalidMove, apperror.ErrCellOutOfRange}},
		{name: "unknown session", sessionID: "missing", cell: 0, want: []error{apperror.ErrSessionNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Move(ctx, tt.sessionID, tt.cell)

			for _, target := range tt.want {
				assert.ErrorIs(t, err, target)
			}
		})
	}

	got, err := svc.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.State.Moves)
}

func TestGameService_Restart(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newGameService(t)
	created, err := svc.Create(ctx, humans())
	require.NoError(t, err)
	_, err = svc.Move(ctx, created.SessionID, 0)
	require.NoError(t, err)

	req := &models.NewGameRequest{
		Player1: game.PlayerConfig{Kind: game.KindComputer, Difficulty: bot.DifficultyStandard},
		Player2: game.PlayerConfig{Name: "Bob", Kind: game.KindHuman},
	}
	resp, err := svc.Restart(ctx, created.SessionID, req)

	require.NoError(t, err)
	assert.Equal(t, created.SessionID, resp.SessionID)
	assert.Equal(t, "Player 1", resp.State.Players[0].Name)
	assert.Equal(t, game.PlayerX, resp.State.Board[game.CenterCell])
	assert.Equal(t, "Bob's turn", resp.Label)
}

func TestGameService_RestartInvalidKeepsGame(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newGameService(t)
	created, err := svc.Create(ctx, humans())
	require.NoError(t, err)
	_, err = svc.Move(ctx, created.SessionID, 0)
	require.NoError(t, err)

	req := humans()
	req.Player1.Difficulty = "impossible"
	_, err = svc.Restart(ctx, created.SessionID, req)

	assert.ErrorIs(t, err, apperror.ErrInvalidPlayerConfig)
	got, err := svc.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.State.Moves)
}

func TestGameService_GetUnknown(t *testing.T) {
	svc, _, _ := newGameService(t)

	_, err := svc.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
}
