package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWinner_EveryLine(t *testing.T) {
	for _, mark := range []PlayerMark{PlayerX, PlayerO} {
		for _, line := range Lines {
			var board Board
			for _, cell := range line {
				board[cell] = mark
			}

			winner, got, ok := CheckWinner(board)

			require.True(t, ok, "line %v for %s", line, mark)
			assert.Equal(t, mark, winner)
			assert.Equal(t, line, got)
		}
	}
}

func TestCheckWinner(t *testing.T) {
	tests := []struct {
		name     string
		board    Board
		want     PlayerMark
		wantLine Line
		wantOK   bool
	}{
		{
			name:  "No winner - empty board",
			board: Board{},
		},
		{
			name: "No winner - partial board",
			board: Board{
				PlayerX, None, None,
				None, PlayerO, None,
				None, None, None,
			},
		},
		{
			name: "O wins - second column",
			board: Board{
				PlayerX, PlayerO, None,
				PlayerX, PlayerO, None,
				None, PlayerO, None,
			},
			want: PlayerO, wantLine: Line{1, 4, 7}, wantOK: true,
		},
		{
			name: "X wins - anti-diagonal",
			board: Board{
				None, PlayerO, PlayerX,
				PlayerO, PlayerX, None,
				PlayerX, None, None,
			},
			want: PlayerX, wantLine: Line{2, 4, 6}, wantOK: true,
		},
		{
			name: "No winner - full board (draw)",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, line, ok := CheckWinner(tt.board)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, winner)
			assert.Equal(t, tt.wantLine, line)
		})
	}
}

func TestIsBoardFull(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  bool
	}{
		{name: "Empty board is not full", board: Board{}, want: false},
		{
			name:  "Partial board is not full",
			board: Board{PlayerX, None, None, None, PlayerO},
			want:  false,
		},
		{
			name: "Full board is full",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBoardFull(tt.board))
		})
	}
}

func TestEmptyCells(t *testing.T) {
	board := Board{PlayerX, None, PlayerO, None, PlayerX, PlayerO, PlayerO, PlayerX, None}
	assert.Equal(t, []int{1, 3, 8}, EmptyCells(board))
	assert.Len(t, EmptyCells(Board{}), CellCount)
}

func TestNewPlayer(t *testing.T) {
	t.Run("blank names fall back to seat defaults", func(t *testing.T) {
		p1 := NewPlayer(1, PlayerConfig{Name: "   ", Kind: KindHuman})
		p2 := NewPlayer(2, PlayerConfig{Kind: KindComputer})

		assert.Equal(t, "Player 1", p1.Name)
		assert.Equal(t, PlayerX, p1.Symbol)
		assert.Equal(t, "Player 2", p2.Name)
		assert.Equal(t, PlayerO, p2.Symbol)
		assert.True(t, p2.IsComputer())
	})

	t.Run("names are trimmed", func(t *testing.T) {
		p := NewPlayer(1, PlayerConfig{Name: " Ada ", Kind: KindHuman})
		assert.Equal(t, "Ada", p.Name)
	})
}

func TestBoardRows(t *testing.T) {
	board := Board{PlayerX, None, PlayerO, None, PlayerX, None, None, None, PlayerO}
	assert.Equal(t, [][]PlayerMark{
		{PlayerX, None, PlayerO},
		{None, PlayerX, None},
		{None, None, PlayerO},
	}, board.Rows())
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
}
