package bot

import (
	"ctchen222/tictactoe/internal/game"
	"math/rand/v2"
	"sync"
	"time"
)

// Difficulty levels understood by the calculator.
const (
	DifficultyEasy     = "easy"
	DifficultyMedium   = "medium"
	DifficultyStandard = "standard"
)

// ValidDifficulty reports whether d names a known level. Empty means
// standard.
func ValidDifficulty(d string) bool {
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyStandard:
		return true
	}
	return false
}

// BotMoveCalculator picks moves for computer players. It is safe for
// concurrent use so a single calculator can serve every session.
type BotMoveCalculator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBotMoveCalculator creates a calculator seeded from the clock.
func NewBotMoveCalculator() *BotMoveCalculator {
	seed := uint64(time.Now().UnixNano())
	return NewSeededCalculator(seed, seed>>1)
}

// NewSeededCalculator creates a calculator with a fixed PCG seed, which makes
// the random tie-breaks reproducible.
func NewSeededCalculator(seed1, seed2 uint64) *BotMoveCalculator {
	return &BotMoveCalculator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// CalculateNextMove determines the next move for mark based on difficulty.
// The board must have at least one empty cell; an exhausted board means the
// engine missed a draw and the call panics.
func (c *BotMoveCalculator) CalculateNextMove(board game.Board, mark game.PlayerMark, difficulty string) int {
	available := game.EmptyCells(board)
	if len(available) == 0 {
		panic("bot: no available moves; the game should already be a draw")
	}

	switch difficulty {
	case DifficultyEasy:
		return c.pick(available)
	case DifficultyMedium:
		return c.mediumMove(board, mark, available)
	default:
		return c.standardMove(board, mark, available)
	}
}

// SelectMove runs the standard ladder: win, block, center, corner, anything.
func (c *BotMoveCalculator) SelectMove(board game.Board, mark game.PlayerMark) int {
	return c.CalculateNextMove(board, mark, DifficultyStandard)
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func (c *BotMoveCalculator) mediumMove(board game.Board, mark game.PlayerMark, available []int) int {
	if cell, ok := findWinningMove(board, available, mark); ok {
		return cell
	}
	if cell, ok := findWinningMove(board, available, mark.Opponent()); ok {
		return cell
	}
	return c.pick(available)
}

func (c *BotMoveCalculator) standardMove(board game.Board, mark game.PlayerMark, available []int) int {
	// 1. Win
	if cell, ok := findWinningMove(board, available, mark); ok {
		return cell
	}

	// 2. Block
	if cell, ok := findWinningMove(board, available, mark.Opponent()); ok {
		return cell
	}

	// 3. Center
	if board[game.CenterCell] == game.None {
		return game.CenterCell
	}

	// 4. Corners, chosen at random
	corners := make([]int, 0, len(game.Corners))
	for _, corner := range game.Corners {
		if board[corner] == game.None {
			corners = append(corners, corner)
		}
	}
	if len(corners) > 0 {
		return c.pick(corners)
	}

	// 5. Whatever is left
	return c.pick(available)
}

func (c *BotMoveCalculator) pick(cells []int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cells[c.rng.IntN(len(cells))]
}

// findWinningMove returns the lowest available cell that completes a line
// for mark. Each candidate is placed tentatively, checked with the same
// detector the engine uses, then reverted.
func findWinningMove(board game.Board, available []int, mark game.PlayerMark) (int, bool) {
	for _, cell := range available {
		board[cell] = mark
		winner, _, won := game.CheckWinner(board)
		board[cell] = game.None
		if won && winner == mark {
			return cell, true
		}
	}
	return -1, false
}
