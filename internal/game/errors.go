// internal/game/errors.go
package game

import "errors"

// Rejection reasons surfaced to clients. Every rejected intent leaves the
// game state untouched; none of these are fatal to the process.
var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidCardIndex = errors.New("invalid card index")
	ErrIllegalCard      = errors.New("cannot play this card")
	ErrGameFull         = errors.New("game is full")
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNotStarted   = errors.New("game has not started")
	ErrDeckExhausted    = errors.New("deck exhausted")
	ErrAlreadyDrawn     = errors.New("already drew a card this turn")
	ErrMustDrawFirst    = errors.New("draw a card before passing")
	ErrNotEnoughPlayers = errors.New("need at least 2 players")
)
