package proto

import "ctchen222/tictactoe/internal/engine"

// Message types exchanged over the session stream.
const (
	TypeMove   = "move"
	TypeState  = "state"
	TypeUpdate = "update"
	TypeError  = "error"
)

// ClientMessage represents a message from the client to the server.
type ClientMessage struct {
	Type string `json:"type" validate:"required,oneof=move"`
	Cell *int   `json:"cell" validate:"required"`
}

// ServerMessage represents a message from the server to the client.
type ServerMessage struct {
	Type   string             `json:"type" validate:"required"`
	Seq    uint64             `json:"seq,omitempty"`
	Event  engine.UpdateEvent `json:"event,omitempty"`
	Result *engine.Result     `json:"result,omitempty"`
	State  *engine.GameState  `json:"state,omitempty"`
	Label  string             `json:"label,omitempty"`
	Reason string             `json:"reason,omitempty"`
}

// NewStateMessage carries a full snapshot, sent when a client connects.
func NewStateMessage(s engine.GameState) ServerMessage {
	return ServerMessage{
		Type:  TypeState,
		State: &s,
		Label: engine.Label(s),
	}
}

// NewUpdateMessage carries one engine update.
func NewUpdateMessage(u engine.Update) ServerMessage {
	return ServerMessage{
		Type:   TypeUpdate,
		Seq:    u.Seq,
		Event:  u.Event,
		Result: &u.Result,
		State:  &u.State,
		Label:  engine.Label(u.State),
	}
}

// NewErrorMessage tells the client why its last message was not applied.
func NewErrorMessage(reason string) ServerMessage {
	return ServerMessage{
		Type:   TypeError,
		Reason: reason,
	}
}
