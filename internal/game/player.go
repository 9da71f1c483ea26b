// internal/game/player.go
package game

import "github.com/google/uuid"

// Player is a seat in a game. The hand is owned and mutated exclusively by
// the engine; hand order is acquisition order and only matters for display.
type Player struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Hand             []Card    `json:"-"`
	HasDrawnThisTurn bool      `json:"hasDrawn"`
}
