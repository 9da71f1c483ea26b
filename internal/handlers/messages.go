// internal/handlers/messages.go
package handlers

import (
	"github.com/google/uuid"

	"github.com/Mohamed-Samehh/UNO/internal/game"
)

// Intent is the tagged union of every message a client may send during a
// session. Fields beyond Type are populated per intent and validated before
// anything reaches the engine.
type Intent struct {
	Type string `json:"type"`

	// Name is the display name for create_game and join_game.
	Name string `json:"name,omitempty"`

	// Code is the 6-character join code for join_game.
	Code string `json:"code,omitempty"`

	// CardIndex selects the hand card for play_card. A pointer so a missing
	// index is distinguishable from index 0.
	CardIndex *int `json:"cardIndex,omitempty"`

	// ChosenColor carries the declared color when playing a wild.
	ChosenColor string `json:"chosenColor,omitempty"`
}

// Intent type tags.
const (
	IntentCreateGame = "create_game"
	IntentJoinGame   = "join_game"
	IntentStartGame  = "start_game"
	IntentPlayCard   = "play_card"
	IntentDrawCard   = "draw_card"
	IntentPassTurn   = "pass_turn"
	IntentPing       = "ping"
)

// Event is the tagged union of every message the server emits. Snapshots are
// broadcast; hands, drawn cards and errors are unicast.
type Event struct {
	Type     string         `json:"type"`
	Code     string         `json:"code,omitempty"`
	PlayerID *uuid.UUID     `json:"playerId,omitempty"`
	State    *game.Snapshot `json:"state,omitempty"`
	Hand     []game.Card    `json:"hand,omitempty"`
	Card     *game.Card     `json:"card,omitempty"`
	HasUno   bool           `json:"hasUno,omitempty"`
	HasWon   bool           `json:"hasWon,omitempty"`
	Winner   *uuid.UUID     `json:"winner,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// Event type tags.
const (
	EventGameCreated = "game_created"
	EventGameJoined  = "game_joined"
	EventGameState   = "game_state"
	EventGameStarted = "game_started"
	EventPlayerHand  = "player_hand"
	EventCardPlayed  = "card_played"
	EventGameWon     = "game_won"
	EventCardDrawn   = "card_drawn"
	EventPlayerLeft  = "player_left"
	EventError       = "error"
	EventPong        = "pong"
)

// parseColor maps a client-supplied color string onto the engine type. The
// empty string stays empty so the engine can reject wilds played without a
// declared color.
func parseColor(s string) game.Color {
	c := game.Color(s)
	if c.IsMatchable() {
		return c
	}
	return ""
}
