package engine

import (
	"context"
	"ctchen222/tictactoe/internal/apperror"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/validator"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultComputerDelay paces computer replies so a human can follow them.
const DefaultComputerDelay = 700 * time.Millisecond

const idleLabel = "Configure players and start a new game"

var tracer = otel.Tracer("engine")

// Engine owns the state of a single game. All exported methods are safe for
// concurrent use.
type Engine struct {
	mu         sync.Mutex
	state      GameState
	generation uint64
	seq        uint64

	strategy  Strategy
	scheduler Scheduler
	delay     time.Duration
	listener  Listener
	history   HistoryRecorder
	now       func() time.Time
	metrics   *instruments
}

// Option configures an Engine.
type Option func(*Engine)

// WithListener registers the observer of every update.
func WithListener(l Listener) Option {
	return func(e *Engine) { e.listener = l }
}

// WithHistory sets where completed games are recorded.
func WithHistory(h HistoryRecorder) Option {
	return func(e *Engine) { e.history = h }
}

// WithScheduler replaces the timer used for delayed computer moves.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithComputerDelay sets the pause before a computer reply. Zero plays the
// reply synchronously.
func WithComputerDelay(d time.Duration) Option {
	return func(e *Engine) { e.delay = d }
}

// WithClock sets the clock used to timestamp game records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an idle engine. NewGame must be called before moves are
// accepted.
func New(strategy Strategy, opts ...Option) *Engine {
	e := &Engine{
		state:     GameState{Phase: PhaseIdle, CurrentPlayer: game.PlayerX},
		strategy:  strategy,
		scheduler: TimerScheduler{},
		delay:     DefaultComputerDelay,
		now:       time.Now,
		metrics:   newInstruments(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// transition carries everything that has to happen after the lock is
// released: notifications, history and the computer follow-up.
type transition struct {
	result   Result
	state    GameState
	kind     game.PlayerKind
	record   *game.GameRecord
	followUp bool
	gen      uint64
	seq      uint64
}

// NewGame resets the board and seats both players. Any computer move still
// pending from the previous game is discarded. When player 1 is a computer
// its opening move is made before NewGame returns.
func (e *Engine) NewGame(ctx context.Context, p1, p2 game.PlayerConfig) (GameState, error) {
	ctx, span := tracer.Start(ctx, "Engine.NewGame", trace.WithAttributes(
		attribute.String("player1.kind", string(p1.Kind)),
		attribute.String("player2.kind", string(p2.Kind)),
	))
	defer span.End()

	for seat, cfg := range []game.PlayerConfig{p1, p2} {
		if err := validator.GetValidator().Struct(cfg); err != nil {
			err = fmt.Errorf("%w: player %d: %s", apperror.ErrInvalidPlayerConfig, seat+1, validator.Describe(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Invalid player configuration")
			return e.State(), err
		}
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.state = GameState{
		CurrentPlayer: game.PlayerX,
		Active:        true,
		Phase:         PhaseActive,
		Players:       [2]game.Player{game.NewPlayer(1, p1), game.NewPlayer(2, p2)},
	}
	snapshot := e.snapshotLocked()
	seq := e.nextSeqLocked()
	e.mu.Unlock()

	span.SetAttributes(attribute.Int64("game.generation", int64(gen)))
	slog.InfoContext(ctx, "New game started",
		"player1.name", snapshot.Players[0].Name, "player1.kind", snapshot.Players[0].Kind,
		"player2.name", snapshot.Players[1].Name, "player2.kind", snapshot.Players[1].Kind)
	e.metrics.started(ctx, snapshot.Players[0], snapshot.Players[1])
	e.notify(ctx, Update{Seq: seq, Event: EventNewGame, Result: Result{Outcome: OutcomeAccepted, Cell: -1}, State: snapshot})

	if snapshot.Players[0].IsComputer() {
		e.playComputer(ctx, gen)
	}
	return e.State(), nil
}

// ApplyMove places the current human player's mark on cell. A rejected move
// returns an error wrapping apperror.ErrInvalidMove and leaves the state
// untouched.
func (e *Engine) ApplyMove(ctx context.Context, cell int) (Result, error) {
	ctx, span := tracer.Start(ctx, "Engine.ApplyMove", trace.WithAttributes(
		attribute.Int("game.cell", cell),
	))
	defer span.End()

	e.mu.Lock()
	if err := e.validateHumanMoveLocked(cell); err != nil {
		e.mu.Unlock()
		slog.DebugContext(ctx, "Move rejected", "game.cell", cell, "error", err)
		span.SetAttributes(attribute.String("game.outcome", string(OutcomeRejected)))
		span.RecordError(err)
		return Result{Outcome: OutcomeRejected, Cell: cell}, err
	}
	t := e.placeLocked(cell)
	e.mu.Unlock()

	span.SetAttributes(attribute.String("game.outcome", string(t.result.Outcome)))
	e.afterMove(ctx, t)
	return t.result, nil
}

func (e *Engine) validateHumanMoveLocked(cell int) error {
	switch {
	case !e.state.Active:
		return apperror.InvalidMove(apperror.ErrGameInactive)
	case !game.InRange(cell):
		return apperror.InvalidMove(apperror.ErrCellOutOfRange)
	case e.state.Board[cell] != game.None:
		return apperror.InvalidMove(apperror.ErrCellOccupied)
	case e.state.Current().IsComputer():
		return apperror.InvalidMove(apperror.ErrNotHumanTurn)
	}
	return nil
}

// placeLocked writes the current mark and settles the game. The caller has
// already validated cell.
func (e *Engine) placeLocked(cell int) transition {
	mover := e.state.Current()
	e.state.Board[cell] = mover.Symbol
	e.state.Moves++

	t := transition{
		kind: mover.Kind,
		gen:  e.generation,
		result: Result{
			Outcome:    OutcomeAccepted,
			Cell:       cell,
			Mark:       mover.Symbol,
			PlayerName: mover.Name,
		},
	}

	if _, line, won := game.CheckWinner(e.state.Board); won {
		e.state.Active = false
		e.state.Phase = PhaseWon
		e.state.WinnerName = mover.Name
		e.state.WinningLine = &line

		resultLine := line
		t.result.Outcome = OutcomeWin
		t.result.WinnerName = mover.Name
		t.result.WinningLine = &resultLine
		rec := game.NewWinRecord(mover.Name, e.state.Players[0], e.state.Players[1], e.now())
		t.record = &rec
	} else if game.IsBoardFull(e.state.Board) {
		e.state.Active = false
		e.state.Phase = PhaseDraw

		t.result.Outcome = OutcomeDraw
		rec := game.NewDrawRecord(e.state.Players[0], e.state.Players[1], e.now())
		t.record = &rec
	} else {
		e.state.CurrentPlayer = mover.Symbol.Opponent()
		t.followUp = e.state.Current().IsComputer()
	}

	t.state = e.snapshotLocked()
	t.seq = e.nextSeqLocked()
	return t
}

// nextSeqLocked numbers an update in the order the state changed.
func (e *Engine) nextSeqLocked() uint64 {
	e.seq++
	return e.seq
}

func (e *Engine) afterMove(ctx context.Context, t transition) {
	e.metrics.moved(ctx, t.kind)

	if t.record != nil {
		e.metrics.completed(ctx, t.result.Outcome)
		slog.InfoContext(ctx, "Game finished", "game.outcome", t.result.Outcome, "game.winner", t.result.WinnerName)
		e.recordHistory(ctx, *t.record)
	}

	e.notify(ctx, Update{Seq: t.seq, Event: EventMove, Result: t.result, State: t.state})

	if t.followUp {
		e.scheduleComputer(ctx, t.gen)
	}
}

func (e *Engine) scheduleComputer(ctx context.Context, gen uint64) {
	// The move may outlive the request that triggered it.
	ctx = context.WithoutCancel(ctx)
	e.scheduler.AfterFunc(e.delay, func() {
		e.playComputer(ctx, gen)
	})
}

// playComputer makes the computer's move for generation gen. It does
// nothing when a newer game has started, the game is over or a human is to
// move.
func (e *Engine) playComputer(ctx context.Context, gen uint64) {
	ctx, span := tracer.Start(ctx, "Engine.playComputer", trace.WithAttributes(
		attribute.Int64("game.generation", int64(gen)),
	))
	defer span.End()

	e.mu.Lock()
	if gen != e.generation || !e.state.Active || !e.state.Current().IsComputer() {
		e.mu.Unlock()
		slog.DebugContext(ctx, "Discarding stale computer move", "game.generation", gen)
		span.SetAttributes(attribute.Bool("game.stale", true))
		return
	}
	mover := e.state.Current()
	cell := e.strategy.CalculateNextMove(e.state.Board, mover.Symbol, mover.Difficulty)
	t := e.placeLocked(cell)
	e.mu.Unlock()

	span.SetAttributes(attribute.Int("game.cell", cell), attribute.String("game.outcome", string(t.result.Outcome)))
	slog.DebugContext(ctx, "Computer moved", "player.name", mover.Name, "game.cell", cell)
	e.afterMove(ctx, t)
}

func (e *Engine) recordHistory(ctx context.Context, rec game.GameRecord) {
	if e.history == nil {
		return
	}
	ctx, span := tracer.Start(ctx, "Engine.recordHistory")
	defer span.End()

	if err := e.history.Record(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "Failed to record finished game", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record finished game")
		e.metrics.recordFailed(ctx)
	}
}

func (e *Engine) notify(ctx context.Context, u Update) {
	if e.listener != nil {
		e.listener.OnUpdate(ctx, u)
	}
}

// CheckWin reports the first fully occupied line, if any.
func (e *Engine) CheckWin() (game.Line, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, line, ok := game.CheckWinner(e.state.Board)
	return line, ok
}

// CheckDraw reports whether the board is full with no winning line.
func (e *Engine) CheckDraw() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _, won := game.CheckWinner(e.state.Board)
	return !won && game.IsBoardFull(e.state.Board)
}

// CurrentTurnLabel is the status line shown above the board.
func (e *Engine) CurrentTurnLabel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return labelFor(e.state)
}

// Label renders the status line for a snapshot.
func Label(s GameState) string {
	return labelFor(s)
}

func labelFor(s GameState) string {
	switch s.Phase {
	case PhaseActive:
		return fmt.Sprintf("%s's turn", s.Current().Name)
	case PhaseWon:
		return fmt.Sprintf("%s wins!", s.WinnerName)
	case PhaseDraw:
		return "Game ended in a draw!"
	default:
		return idleLabel
	}
}

// State returns a copy of the current state.
func (e *Engine) State() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() GameState {
	s := e.state
	if s.WinningLine != nil {
		line := *s.WinningLine
		s.WinningLine = &line
	}
	return s
}
