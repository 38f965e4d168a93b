package proto

import (
	"ctchen222/tictactoe/internal/engine"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/validator"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientMessage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "move", raw: `{"type":"move","cell":4}`},
		{name: "move to cell zero", raw: `{"type":"move","cell":0}`},
		{name: "missing cell", raw: `{"type":"move"}`, wantErr: true},
		{name: "unknown type", raw: `{"type":"rematch","cell":1}`, wantErr: true},
		{name: "missing type", raw: `{"cell":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg ClientMessage
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &msg))

			err := validator.GetValidator().Struct(msg)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewUpdateMessage(t *testing.T) {
	line := game.Line{0, 1, 2}
	u := engine.Update{
		Seq:   5,
		Event: engine.EventMove,
		Result: engine.Result{
			Outcome:     engine.OutcomeWin,
			Cell:        2,
			Mark:        game.PlayerX,
			WinnerName:  "Alice",
			WinningLine: &line,
		},
		State: engine.GameState{
			Phase:       engine.PhaseWon,
			WinnerName:  "Alice",
			WinningLine: &line,
		},
	}

	msg := NewUpdateMessage(u)

	assert.Equal(t, TypeUpdate, msg.Type)
	assert.Equal(t, engine.EventMove, msg.Event)
	assert.Equal(t, uint64(5), msg.Seq)
	assert.Equal(t, "Alice wins!", msg.Label)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"winning_line":[0,1,2]`)
	assert.NotContains(t, string(data), `"reason"`)
}

func TestNewErrorMessage(t *testing.T) {
	data, err := json.Marshal(NewErrorMessage("cell is already occupied"))

	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","reason":"cell is already occupied"}`, string(data))
}
