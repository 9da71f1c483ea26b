// internal/game/card.go
package game

import "fmt"

// Color is a card color. Wild cards carry ColorWild until the player who
// plays them picks the color the table must match.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorWild   Color = "wild"
)

// Colors lists the four matchable colors in a fixed order.
var Colors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// IsMatchable reports whether c is one of the four table colors.
func (c Color) IsMatchable() bool {
	switch c {
	case ColorRed, ColorBlue, ColorGreen, ColorYellow:
		return true
	}
	return false
}

// Kind identifies what a card does when played.
type Kind string

const (
	KindNumber       Kind = "number"
	KindSkip         Kind = "skip"
	KindReverse      Kind = "reverse"
	KindDrawTwo      Kind = "draw2"
	KindWild         Kind = "wild"
	KindWildDrawFour Kind = "draw4"
)

// Card is immutable once created. Number is meaningful only for KindNumber.
type Card struct {
	Color  Color `json:"color"`
	Kind   Kind  `json:"kind"`
	Number int   `json:"number,omitempty"`
}

// IsWild reports whether the card can be played on any discard.
func (c Card) IsWild() bool {
	return c.Kind == KindWild || c.Kind == KindWildDrawFour
}

func (c Card) String() string {
	if c.Kind == KindNumber {
		return fmt.Sprintf("%s %d", c.Color, c.Number)
	}
	if c.IsWild() {
		return string(c.Kind)
	}
	return fmt.Sprintf("%s %s", c.Color, c.Kind)
}

// DeckSize is the number of cards in a full UNO deck.
const DeckSize = 108

// buildDeck returns the standard 108-card composition, unshuffled:
// per color one 0, two of each 1..9 and two each of skip/reverse/draw2,
// plus four wilds and four wild-draw-fours.
func buildDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, color := range Colors {
		cards = append(cards, Card{Color: color, Kind: KindNumber, Number: 0})
		for n := 1; n <= 9; n++ {
			cards = append(cards,
				Card{Color: color, Kind: KindNumber, Number: n},
				Card{Color: color, Kind: KindNumber, Number: n},
			)
		}
		for _, kind := range []Kind{KindSkip, KindReverse, KindDrawTwo} {
			cards = append(cards,
				Card{Color: color, Kind: kind},
				Card{Color: color, Kind: kind},
			)
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards,
			Card{Color: ColorWild, Kind: KindWild},
			Card{Color: ColorWild, Kind: KindWildDrawFour},
		)
	}
	return cards
}
