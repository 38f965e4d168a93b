package engine

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"time"
)

// Outcome classifies the result of a move attempt.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeWin      Outcome = "win"
	OutcomeDraw     Outcome = "draw"
)

// Phase is the engine's position in its Idle -> Active -> Won|Draw cycle.
type Phase string

const (
	PhaseIdle   Phase = "idle"
	PhaseActive Phase = "active"
	PhaseWon    Phase = "won"
	PhaseDraw   Phase = "draw"
)

// Result describes a single move attempt.
type Result struct {
	Outcome     Outcome         `json:"outcome"`
	Cell        int             `json:"cell"`
	Mark        game.PlayerMark `json:"mark,omitempty"`
	PlayerName  string          `json:"player_name,omitempty"`
	WinnerName  string          `json:"winner_name,omitempty"`
	WinningLine *game.Line      `json:"winning_line,omitempty"`
}

// GameState is a snapshot of an engine. It shares nothing with the engine.
type GameState struct {
	Board         game.Board      `json:"board"`
	CurrentPlayer game.PlayerMark `json:"current_player"`
	Active        bool            `json:"active"`
	Phase         Phase           `json:"phase"`
	Players       [2]game.Player  `json:"players"`
	WinnerName    string          `json:"winner_name,omitempty"`
	WinningLine   *game.Line      `json:"winning_line,omitempty"`
	Moves         int             `json:"moves"`
}

// Player returns the player holding mark.
func (s GameState) Player(mark game.PlayerMark) game.Player {
	if mark == game.PlayerO {
		return s.Players[1]
	}
	return s.Players[0]
}

// Current returns the player whose turn it is.
func (s GameState) Current() game.Player {
	return s.Player(s.CurrentPlayer)
}

// UpdateEvent names what produced an Update.
type UpdateEvent string

const (
	EventNewGame UpdateEvent = "new_game"
	EventMove    UpdateEvent = "move"
)

// Update is delivered to the listener after every new game and every
// accepted move, human or computer. Listeners run outside the engine lock,
// so deliveries from different goroutines may arrive out of order; Seq
// increases with every state change and a listener that keeps only the
// highest Seq it has seen always ends on the current state.
type Update struct {
	Seq    uint64      `json:"seq"`
	Event  UpdateEvent `json:"event"`
	Result Result      `json:"result"`
	State  GameState   `json:"state"`
}

// Listener observes an engine. OnUpdate is never called with the engine
// lock held, so implementations may call back into the engine.
type Listener interface {
	OnUpdate(ctx context.Context, u Update)
}

// HistoryRecorder receives exactly one record per completed game.
type HistoryRecorder interface {
	Record(ctx context.Context, rec game.GameRecord) error
}

// Strategy chooses moves for computer players.
type Strategy interface {
	CalculateNextMove(board game.Board, mark game.PlayerMark, difficulty string) int
}

// Scheduler runs the computer's follow-up move after a delay.
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func())
}

// TimerScheduler runs callbacks on time.AfterFunc. A non-positive delay runs
// the callback on the calling goroutine before AfterFunc returns.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(delay time.Duration, fn func()) {
	if delay <= 0 {
		fn()
		return
	}
	time.AfterFunc(delay, fn)
}

//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks . HistoryRecorder,Listener,Strategy
