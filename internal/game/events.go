// internal/game/events.go
package game

import "github.com/google/uuid"

// PlayerView is a seat as every participant may see it: hand redacted to a
// count.
type PlayerView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CardCount int       `json:"cardCount"`
	HasDrawn  bool      `json:"hasDrawn"`
}

// Snapshot is the public view of a game, safe to broadcast to everyone in
// it. A player's own hand travels separately as a unicast.
type Snapshot struct {
	Code               string       `json:"code"`
	Players            []PlayerView `json:"players"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	TopCard            *Card        `json:"topCard,omitempty"`
	ActiveColor        Color        `json:"activeColor,omitempty"`
	DeckCount          int          `json:"deckCount"`
	Direction          int          `json:"direction"`
	Started            bool         `json:"started"`
}

// PlayResult reports a successful card play back to the adapter.
type PlayResult struct {
	Card   Card `json:"card"`
	HasUno bool `json:"hasUno"`
	HasWon bool `json:"hasWon"`
}
