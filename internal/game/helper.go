package game

import (
	"fmt"
	"strings"
)

// PlayerKind tells the engine who supplies a player's moves.
type PlayerKind string

const (
	KindHuman    PlayerKind = "human"
	KindComputer PlayerKind = "computer"
)

// Player is one of the two seats of a game. Player 1 always plays X.
type Player struct {
	Name       string     `json:"name"`
	Kind       PlayerKind `json:"kind"`
	Symbol     PlayerMark `json:"symbol"`
	Difficulty string     `json:"difficulty,omitempty"`
}

// IsComputer reports whether the strategy moves for this player.
func (p Player) IsComputer() bool {
	return p.Kind == KindComputer
}

// PlayerConfig is what a collaborator supplies when starting a game.
type PlayerConfig struct {
	Name       string     `json:"name" validate:"max=32"`
	Kind       PlayerKind `json:"kind" validate:"required,oneof=human computer"`
	Difficulty string     `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium standard"`
}

// DefaultPlayerName returns the fallback name for seat 1 or 2.
func DefaultPlayerName(seat int) string {
	return fmt.Sprintf("Player %d", seat)
}

// NewPlayer builds the player for a seat, falling back to the default name
// when the configured one is blank.
func NewPlayer(seat int, cfg PlayerConfig) Player {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = DefaultPlayerName(seat)
	}
	symbol := PlayerX
	if seat == 2 {
		symbol = PlayerO
	}
	return Player{
		Name:       name,
		Kind:       cfg.Kind,
		Symbol:     symbol,
		Difficulty: cfg.Difficulty,
	}
}
