package service

import (
	"context"
	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/engine"
	"ctchen222/tictactoe/internal/session"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("api.service")

// GameService defines the session-scoped game operations exposed over HTTP.
type GameService interface {
	Create(ctx context.Context, req *models.NewGameRequest) (*models.CreateGameResponse, error)
	Restart(ctx context.Context, sessionID string, req *models.NewGameRequest) (*models.GameResponse, error)
	Move(ctx context.Context, sessionID string, cell int) (*models.MoveResponse, error)
	Get(ctx context.Context, sessionID string) (*models.GameResponse, error)
}

type gameService struct {
	sessions *session.Manager
	tokens   TokenService
}

// NewGameService creates a new GameService.
func NewGameService(sessions *session.Manager, tokens TokenService) GameService {
	return &gameService{sessions: sessions, tokens: tokens}
}

// Create opens a session, starts its first game and issues the session token.
func (s *gameService) Create(ctx context.Context, req *models.NewGameRequest) (*models.CreateGameResponse, error) {
	ctx, span := tracer.Start(ctx, "GameService.Create")
	defer span.End()

	sess, err := s.sessions.Create(ctx, req.Player1, req.Player2)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("session.id", sess.ID))

	token, err := s.tokens.Issue(sess.ID)
	if err != nil {
		s.sessions.Remove(sess.ID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue session token")
		return nil, err
	}

	return &models.CreateGameResponse{
		GameResponse: gameResponse(sess.ID, sess.Engine.State()),
		Token:        token,
	}, nil
}

// Restart replaces the session's game with a fresh one.
func (s *gameService) Restart(ctx context.Context, sessionID string, req *models.NewGameRequest) (*models.GameResponse, error) {
	ctx, span := tracer.Start(ctx, "GameService.Restart", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	state, err := sess.Engine.NewGame(ctx, req.Player1, req.Player2)
	if err != nil {
		return nil, err
	}
	resp := gameResponse(sessionID, state)
	return &resp, nil
}

// Move applies a human move. A rejected move returns an error matching
// apperror.ErrInvalidMove and leaves the game untouched.
func (s *gameService) Move(ctx context.Context, sessionID string, cell int) (*models.MoveResponse, error) {
	ctx, span := tracer.Start(ctx, "GameService.Move", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("game.cell", cell),
	))
	defer span.End()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	result, err := sess.Engine.ApplyMove(ctx, cell)
	if err != nil {
		slog.InfoContext(ctx, "Move rejected", "session.id", sessionID, "game.cell", cell, "error", err)
		return nil, fmt.Errorf("move to cell %d rejected: %w", cell, err)
	}

	state := sess.Engine.State()
	return &models.MoveResponse{
		Result: result,
		State:  state,
		Label:  engine.Label(state),
	}, nil
}

// Get returns the current game of a session.
func (s *gameService) Get(ctx context.Context, sessionID string) (*models.GameResponse, error) {
	_, span := tracer.Start(ctx, "GameService.Get", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	resp := gameResponse(sessionID, sess.Engine.State())
	return &resp, nil
}

func gameResponse(sessionID string, state engine.GameState) models.GameResponse {
	return models.GameResponse{
		SessionID: sessionID,
		State:     state,
		Label:     engine.Label(state),
	}
}
