package terminal

import (
	"bufio"
	"context"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/engine"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/repository"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Mode is a pairing of player kinds offered in the menu.
type Mode int

const (
	ModeHumanVsComputer Mode = iota + 1
	ModeComputerVsComputer
	ModeHumanVsHuman
)

// errQuit ends the session when input runs out.
var errQuit = errors.New("quit")

// Options configure a Client.
type Options struct {
	Strategy engine.Strategy
	// History is optional. When set, every finished game is recorded and
	// the lifetime totals are shown after it.
	History repository.HistoryRepository
	// Difficulty is used for every computer player.
	Difficulty string
	// ThinkDelay is the pause shown before each computer move.
	ThinkDelay time.Duration
}

// Client plays games on a line-oriented terminal.
type Client struct {
	in   *bufio.Scanner
	out  io.Writer
	opts Options
}

// New creates a Client reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, opts Options) *Client {
	return &Client{
		in:   bufio.NewScanner(in),
		out:  out,
		opts: opts,
	}
}

// Run shows the menu and plays games until the user declines another one,
// input ends or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	if !bot.ValidDifficulty(c.opts.Difficulty) {
		return fmt.Errorf("unknown difficulty %q", c.opts.Difficulty)
	}
	c.println("Welcome to Tic-Tac-Toe!")
	for {
		if err := c.round(ctx); err != nil {
			if errors.Is(err, errQuit) {
				c.println("\nGoodbye!")
				return nil
			}
			return err
		}

		answer, err := c.prompt(ctx, "\nPlay again? (y/n): ")
		if errors.Is(err, errQuit) {
			c.println("\nGoodbye!")
			return nil
		}
		if err != nil {
			return err
		}
		if a := strings.ToLower(answer); a != "y" && a != "yes" {
			c.println("Goodbye!")
			return nil
		}
	}
}

func (c *Client) round(ctx context.Context) error {
	mode, err := c.selectMode(ctx)
	if err != nil {
		return err
	}
	p1, p2, err := c.players(ctx, mode)
	if err != nil {
		return err
	}
	if err := c.play(ctx, p1, p2); err != nil {
		return err
	}
	c.printStats(ctx)
	return nil
}

func (c *Client) selectMode(ctx context.Context) (Mode, error) {
	c.println("\nGame modes:")
	c.println("1. Human vs Computer")
	c.println("2. Computer vs Computer")
	c.println("3. Human vs Human")

	for {
		answer, err := c.prompt(ctx, "\nSelect game mode (1, 2 or 3): ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			c.println("Invalid input. Please enter 1, 2 or 3.")
			continue
		}
		if mode := Mode(n); mode >= ModeHumanVsComputer && mode <= ModeHumanVsHuman {
			return mode, nil
		}
		c.println("Invalid mode. Please select 1, 2 or 3.")
	}
}

func (c *Client) players(ctx context.Context, mode Mode) (game.PlayerConfig, game.PlayerConfig, error) {
	type seat struct {
		question string
		fallback string
		kind     game.PlayerKind
	}
	var seats [2]seat
	switch mode {
	case ModeHumanVsComputer:
		seats = [2]seat{
			{"Enter your name", "Human", game.KindHuman},
			{"Enter computer's name", "Computer", game.KindComputer},
		}
	case ModeComputerVsComputer:
		seats = [2]seat{
			{"Enter first computer's name", "Computer 1", game.KindComputer},
			{"Enter second computer's name", "Computer 2", game.KindComputer},
		}
	default:
		seats = [2]seat{
			{"Enter first player's name", "Player 1", game.KindHuman},
			{"Enter second player's name", "Player 2", game.KindHuman},
		}
	}

	var cfgs [2]game.PlayerConfig
	for i, s := range seats {
		name, err := c.prompt(ctx, fmt.Sprintf("%s (default: %s): ", s.question, s.fallback))
		if err != nil {
			return game.PlayerConfig{}, game.PlayerConfig{}, err
		}
		if name == "" {
			name = s.fallback
		}
		cfgs[i] = game.PlayerConfig{Name: name, Kind: s.kind}
		if s.kind == game.KindComputer {
			cfgs[i].Difficulty = c.opts.Difficulty
		}
	}
	return cfgs[0], cfgs[1], nil
}

// play runs one game. Computer moves happen synchronously inside NewGame
// and ApplyMove, so the loop only ever waits for human input.
func (c *Client) play(ctx context.Context, p1, p2 game.PlayerConfig) error {
	opts := []engine.Option{
		engine.WithComputerDelay(0),
		engine.WithListener(c),
	}
	if c.opts.History != nil {
		opts = append(opts, engine.WithHistory(c.opts.History))
	}
	eng := engine.New(c.opts.Strategy, opts...)

	state, err := eng.NewGame(ctx, p1, p2)
	if err != nil {
		c.printf("Could not start the game: %v\n", err)
		return nil
	}

	for state.Active {
		cell, err := c.readMove(ctx, state)
		if err != nil {
			return err
		}
		if _, err := eng.ApplyMove(ctx, cell); err != nil {
			c.println("Invalid move. Try again.")
			continue
		}
		state = eng.State()
	}

	c.println("\nFinal board:")
	c.printBoard(state.Board)
	switch state.Phase {
	case engine.PhaseWon:
		c.printf("\n%s wins!\n", state.WinnerName)
	case engine.PhaseDraw:
		c.println("\nIt's a tie!")
	}
	return nil
}

// OnUpdate announces computer turns before the engine plays them.
func (c *Client) OnUpdate(_ context.Context, u engine.Update) {
	if !u.State.Active || !u.State.Current().IsComputer() {
		return
	}
	c.printTurn(u.State)
	c.printf("%s is thinking...\n", u.State.Current().Name)
	if c.opts.ThinkDelay > 0 {
		time.Sleep(c.opts.ThinkDelay)
	}
}

func (c *Client) readMove(ctx context.Context, state engine.GameState) (int, error) {
	c.printTurn(state)
	player := state.Current()
	for {
		answer, err := c.prompt(ctx, fmt.Sprintf("%s, enter your move (0-8): ", player.Name))
		if err != nil {
			return 0, err
		}
		cell, err := strconv.Atoi(answer)
		if err != nil {
			c.println("Invalid input. Please enter a number between 0-8.")
			continue
		}
		if !game.InRange(cell) || state.Board[cell] != game.None {
			c.println("Invalid move. Try again.")
			continue
		}
		return cell, nil
	}
}

func (c *Client) printStats(ctx context.Context) {
	if c.opts.History == nil {
		return
	}
	h, err := c.opts.History.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load history", "error", err)
		return
	}
	c.printf("\nGames played: %d, draws: %d\n", h.Stats.TotalGames, h.Stats.TotalDraws)
}

func (c *Client) printTurn(state engine.GameState) {
	player := state.Current()
	c.printf("\n%s's turn (%s)\n", player.Name, player.Symbol)
	c.printBoard(state.Board)
}

func (c *Client) printBoard(b game.Board) {
	for _, row := range b.Rows() {
		cells := make([]string, len(row))
		for i, mark := range row {
			cells[i] = " "
			if mark != game.None {
				cells[i] = string(mark)
			}
		}
		c.printf("| %s |\n", strings.Join(cells, " | "))
		c.println(strings.Repeat("-", 13))
	}
}

// prompt writes question and returns the trimmed answer. It fails with
// errQuit at end of input.
func (c *Client) prompt(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.printf("%s", question)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", errQuit
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Client) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Client) println(s string) {
	fmt.Fprintln(c.out, s)
}
