package room

import (
	"encoding/json"

	"github.com/apper-canvas/impact-sketch-rush/internal/game"
)

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// client -> server
const (
	TypeGuess     = "guess"
	TypeStartGame = "start_game"
	TypeSkipTurn  = "skip_turn"
	TypeStroke    = "stroke"
	TypeDrawPoint = "draw_point"
	TypeUndo      = "undo"
	TypeClear     = "clear"
)

// server -> client; engine events go out under their own event type.
const (
	TypeGameState   = "game_state"
	TypeUserJoined  = "user_joined"
	TypeUserLeft    = "user_left"
	TypeGuessResult = "guess_result"
	TypeError       = "error"
)

// RoomSnapshot is sent to a player when they connect.
type RoomSnapshot struct {
	RoomID    int64             `json:"roomId"`
	Session   game.View         `json:"session"`
	Connected []string          `json:"connected"`
	Strokes   []json.RawMessage `json:"strokes"`
}

type eventPayload struct {
	Session  game.View          `json:"session"`
	PlayerID string             `json:"playerId,omitempty"`
	Guess    *game.Guess        `json:"guess,omitempty"`
	Points   int                `json:"points,omitempty"`
	Reason   game.AdvanceReason `json:"reason,omitempty"`
	Word     string             `json:"word,omitempty"`
}

type guessResultPayload struct {
	Guess     game.Guess `json:"guess"`
	IsCorrect bool       `json:"isCorrect"`
	Points    int        `json:"points"`
	Session   game.View  `json:"session"`
}

type tickPayload struct {
	Turn          int `json:"turn"`
	TimeRemaining int `json:"timeRemaining"`
}

type errorPayload struct {
	Error    string `json:"error"`
	Terminal bool   `json:"terminal"`
}
