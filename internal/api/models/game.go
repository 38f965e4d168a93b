package models

import (
	"ctchen222/tictactoe/internal/engine"
	"ctchen222/tictactoe/internal/game"
)

// NewGameRequest defines the body for creating or restarting a game.
type NewGameRequest struct {
	Player1 game.PlayerConfig `json:"player1"`
	Player2 game.PlayerConfig `json:"player2"`
}

// MoveRequest defines the body for a human move.
type MoveRequest struct {
	Cell *int `json:"cell" binding:"required"`
}

// GameResponse is a snapshot of a session's game.
type GameResponse struct {
	SessionID string           `json:"session_id"`
	State     engine.GameState `json:"state"`
	Label     string           `json:"label"`
}

// CreateGameResponse is returned once, when a session is opened. Token must
// accompany every later request for the session.
type CreateGameResponse struct {
	GameResponse
	Token string `json:"token"`
}

// MoveResponse describes an accepted move and the game after it.
type MoveResponse struct {
	Result engine.Result    `json:"result"`
	State  engine.GameState `json:"state"`
	Label  string           `json:"label"`
}
