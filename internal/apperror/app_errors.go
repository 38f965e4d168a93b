package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrGameInactive   = errors.New("game is not active")
	ErrCellOutOfRange = errors.New("cell is out of range")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrNotHumanTurn   = errors.New("it's the computer's turn")

	ErrInvalidPlayerConfig = errors.New("invalid player configuration")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidToken        = errors.New("invalid session token")
)

// InvalidMove wraps reason so that both ErrInvalidMove and reason match
// with errors.Is.
func InvalidMove(reason error) error {
	return fmt.Errorf("%w: %w", ErrInvalidMove, reason)
}
