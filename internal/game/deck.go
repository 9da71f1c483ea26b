// internal/game/deck.go
package game

import "math/rand"

// Deck is an ordered pile of face-down cards, drawn from the tail. The
// random source is injected so shuffles are reproducible under test.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck builds a full shuffled 108-card deck using the given source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.Initialize()
	return d
}

// Initialize rebuilds the standard composition and shuffles it.
func (d *Deck) Initialize() {
	d.cards = buildDeck()
	d.shuffle()
}

// shuffle performs an unbiased Fisher-Yates permutation.
func (d *Deck) shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int { return len(d.cards) }

// Draw pops the tail card. It fails with ErrDeckExhausted when empty; the
// engine reclaims the discard pile first, so hitting this means the whole
// deck is in players' hands.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// Refill takes ownership of reclaimed discard cards and reshuffles.
func (d *Deck) Refill(cards []Card) {
	d.cards = append(d.cards, cards...)
	d.shuffle()
}
