package types

import "github.com/DoyleJ11/money-game-backend/internal/engine"

// ClientMessage Type is one of the engine command names ("lockTrading",
// "choosePaddle", ...). Unused fields are omitted.
type ClientMessage struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Tickets  int    `json:"tickets,omitempty"`
	Paddle   int    `json:"paddle,omitempty"`
	Prize    int    `json:"prize,omitempty"`
	Vote     bool   `json:"vote,omitempty"`
}

const (
	MsgWelcome       = "Welcome"
	MsgStateSnapshot = "StateSnapshot"
	MsgError         = "Error"
)

type ServerMessage struct {
	Type     string         `json:"type"` // "Welcome" | "StateSnapshot" | "Error"
	Version  int            `json:"version,omitempty"`
	PlayerID string         `json:"player_id,omitempty"`
	View     *engine.View   `json:"view,omitempty"`
	Events   []engine.Event `json:"events,omitempty"`
	Code     string         `json:"code,omitempty"`
	Error    string         `json:"error,omitempty"`
}
