package terminal

import (
	"bytes"
	"context"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/repository"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string, history repository.HistoryRepository) string {
	t.Helper()
	var out bytes.Buffer
	client := New(strings.NewReader(input), &out, Options{
		Strategy:   bot.NewSeededCalculator(11, 12),
		History:    history,
		Difficulty: bot.DifficultyStandard,
	})

	require.NoError(t, client.Run(context.Background()))
	return out.String()
}

func TestClient_HumanVsHuman(t *testing.T) {
	// Given: two named humans where Alice takes the top row
	input := strings.Join([]string{"3", "Alice", "Bob", "0", "3", "1", "4", "2", "n"}, "\n") + "\n"
	history := repository.NewMemoryHistoryRepository(0)

	// When: the session is played
	out := run(t, input, history)

	// Then: Alice wins and the game is recorded
	assert.Contains(t, out, "Welcome to Tic-Tac-Toe!")
	assert.Contains(t, out, "Alice's turn (X)")
	assert.Contains(t, out, "Bob's turn (O)")
	assert.Contains(t, out, "Final board:\n| X | X | X |\n-------------\n| O | O |   |\n")
	assert.Contains(t, out, "\nAlice wins!\n")
	assert.Contains(t, out, "Games played: 1, draws: 0")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))

	h, err := history.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, h.Records, 1)
	assert.Equal(t, "Alice", *h.Records[0].WinnerName)
}

func TestClient_Tie(t *testing.T) {
	input := strings.Join([]string{"3", "", "", "0", "1", "2", "4", "3", "5", "7", "6", "8", "n"}, "\n") + "\n"

	out := run(t, input, nil)

	assert.Contains(t, out, "Player 1, enter your move (0-8): ")
	assert.Contains(t, out, "\nIt's a tie!\n")
	assert.NotContains(t, out, "Games played")
}

func TestClient_RepromptsOnInvalidInput(t *testing.T) {
	// Given: a bad mode choice, default names and bad moves; the standard
	// computer answers cell 0 with the centre. Input ends mid-game.
	input := strings.Join([]string{"7", "two", "1", "", "", "abc", "9", "0", "4"}, "\n") + "\n"

	out := run(t, input, nil)

	assert.Contains(t, out, "Invalid mode. Please select 1, 2 or 3.")
	assert.Contains(t, out, "Invalid input. Please enter 1, 2 or 3.")
	assert.Contains(t, out, "Invalid input. Please enter a number between 0-8.")
	assert.Equal(t, 2, strings.Count(out, "Invalid move. Try again."))
	assert.Contains(t, out, "Computer's turn (O)")
	assert.Contains(t, out, "Computer is thinking...")
	assert.Contains(t, out, "| X |   |   |\n-------------\n|   | O |   |\n")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
}

func TestClient_ComputerVsComputer(t *testing.T) {
	input := strings.Join([]string{"2", "Deep", "Blue", "y", "2", "", "", "n"}, "\n") + "\n"
	history := repository.NewMemoryHistoryRepository(0)

	out := run(t, input, history)

	assert.Contains(t, out, "Deep is thinking...")
	assert.Contains(t, out, "Blue is thinking...")
	assert.Contains(t, out, "Computer 1 is thinking...")
	assert.Equal(t, 2, strings.Count(out, "Final board:"))
	assert.NotContains(t, out, "enter your move")
	assert.Contains(t, out, "Games played: 2")

	h, err := history.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.Records, 2)
}

func TestClient_StopsWhenContextIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := New(strings.NewReader("3\n"), &bytes.Buffer{}, Options{Strategy: bot.NewSeededCalculator(1, 1)})

	err := client.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_RejectsUnknownDifficulty(t *testing.T) {
	var out bytes.Buffer
	client := New(strings.NewReader("1\n"), &out, Options{
		Strategy:   bot.NewSeededCalculator(1, 1),
		Difficulty: "hard",
	})

	err := client.Run(context.Background())

	assert.ErrorContains(t, err, `unknown difficulty "hard"`)
	assert.Empty(t, out.String())
}
