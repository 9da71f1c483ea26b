// internal/game/game.go
package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Mohamed-Samehh/UNO/internal/cache"
)

// MaxPlayers caps a table; a physical UNO deck supports up to ten seats.
const MaxPlayers = 10

// UnoGame holds the entire authoritative state for a single table in memory.
// Every exported method acquires the game mutex, so intents targeting the
// same game serialize while distinct games proceed in parallel.
type UnoGame struct {
	// ID is the stable key used by the action historian. Code is the short
	// join code shown to players.
	ID   uuid.UUID
	Code string

	mu sync.Mutex

	players            []*Player
	deck               *Deck
	discardPile        []Card
	currentPlayerIndex int
	direction          int
	started            bool
	winner             *uuid.UUID

	// Penalty accumulators. Non-zero only between a draw-card play and the
	// following turn advance.
	pendingDrawTwo  int
	pendingDrawFour int
	skipNext        bool

	// activeColor is what the next play must match. It tracks the played
	// card's color, or the chosen color for wilds; the wild card itself
	// keeps ColorWild for display.
	activeColor Color

	rng         *rand.Rand
	logger      *logrus.Logger
	actionIndex int
}

// NewUnoGame builds an empty table with a freshly shuffled deck and a
// time-seeded random source.
func NewUnoGame(code string, logger *logrus.Logger) *UnoGame {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return NewUnoGameWithRand(code, logger, rng)
}

// NewUnoGameWithRand is NewUnoGame with an injected random source, so deals
// and shuffles are reproducible under test.
func NewUnoGameWithRand(code string, logger *logrus.Logger, rng *rand.Rand) *UnoGame {
	if logger == nil {
		logger = logrus.New()
	}
	id, _ := uuid.NewRandom()
	return &UnoGame{
		ID:        id,
		Code:      code,
		direction: 1,
		deck:      NewDeck(rng),
		rng:       rng,
		logger:    logger,
	}
}

// AddPlayer seats a new player. The transport adapter guarantees unique ids
// and is responsible for rejecting joins to games that already started; the
// engine only enforces the seat cap.
func (g *UnoGame) AddPlayer(id uuid.UUID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.players) >= MaxPlayers {
		return ErrGameFull
	}
	g.players = append(g.players, &Player{ID: id, Name: name})
	g.logAction(id, "player_join", map[string]interface{}{"name": name})
	return nil
}

// RemovePlayer unseats a player; removing an unknown id is a no-op. If a
// started game falls below two players it reverts to the lobby state with
// remaining hands and the deck preserved as-is.
func (g *UnoGame) RemovePlayer(id uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := -1
	for i, p := range g.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	g.players = append(g.players[:idx], g.players[idx+1:]...)
	if len(g.players) > 0 {
		// Keep the turn pointer on a seated player. Seats after the removed
		// one shift left, so the pointer follows them.
		if g.currentPlayerIndex > idx {
			g.currentPlayerIndex--
		}
		g.currentPlayerIndex %= len(g.players)
	} else {
		g.currentPlayerIndex = 0
	}
	if len(g.players) < 2 && g.started {
		g.started = false
		g.logger.WithFields(logrus.Fields{"game": g.Code, "players": len(g.players)}).
			Info("game paused below minimum players")
	}
	g.logAction(id, "player_leave", nil)
}

// PlayerCount returns the number of seated players.
func (g *UnoGame) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// Started reports whether turns are in progress.
func (g *UnoGame) Started() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.started
}

// Winner returns the winning player id once a player has shed their hand.
func (g *UnoGame) Winner() (uuid.UUID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.winner == nil {
		return uuid.Nil, false
	}
	return *g.winner, true
}

// Start deals seven cards to each seat, flips the first discard (re-drawing
// past wilds so the opening color is unambiguous) and begins play with the
// first seat, clockwise.
func (g *UnoGame) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.players) < 2 {
		return ErrNotEnoughPlayers
	}

	g.deck.Initialize()
	g.discardPile = g.discardPile[:0]
	for _, p := range g.players {
		p.Hand = make([]Card, 0, 7)
		for i := 0; i < 7; i++ {
			c, err := g.drawFromDeck()
			if err != nil {
				return err
			}
			p.Hand = append(p.Hand, c)
		}
		p.HasDrawnThisTurn = false
	}

	// Wilds drawn while searching for the opening card stay out of play;
	// with 8 wilds in 108 cards a non-wild always turns up.
	first, err := g.drawFromDeck()
	for err == nil && first.IsWild() {
		first, err = g.drawFromDeck()
	}
	if err != nil {
		return err
	}
	g.discardPile = append(g.discardPile, first)
	g.activeColor = first.Color

	g.currentPlayerIndex = 0
	g.direction = 1
	g.pendingDrawTwo = 0
	g.pendingDrawFour = 0
	g.skipNext = false
	g.winner = nil
	g.started = true

	g.logger.WithFields(logrus.Fields{"game": g.Code, "players": len(g.players)}).Info("game started")
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{"players": len(g.players)})
	return nil
}

// IsLegalPlay reports whether the seated current player may play the card.
// Wilds are always legal; otherwise the card must match the active color,
// or match the top card's kind (with equal number for number cards).
func (g *UnoGame) IsLegalPlay(card Card, playerID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isLegalPlayLocked(card, playerID)
}

func (g *UnoGame) isLegalPlayLocked(card Card, playerID uuid.UUID) bool {
	if !g.started || len(g.players) == 0 || len(g.discardPile) == 0 {
		return false
	}
	if g.players[g.currentPlayerIndex].ID != playerID {
		return false
	}
	if card.IsWild() {
		return true
	}
	if card.Color == g.activeColor {
		return true
	}
	top := g.discardPile[len(g.discardPile)-1]
	if card.Kind != top.Kind {
		return false
	}
	// A number card only matches an equal number; same-kind is not enough.
	if card.Kind == KindNumber {
		return card.Number == top.Number
	}
	return true
}

// PlayCard removes the indexed card from the player's hand, pushes it onto
// the discard pile and applies its effect. Wilds must arrive with a chosen
// color; a missing or unmatchable chosen color is rejected as an illegal
// play rather than silently defaulting to red. On a win the turn does not
// advance and the game enters its terminal state.
func (g *UnoGame) PlayCard(cardIndex int, playerID uuid.UUID, chosenColor Color) (PlayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started {
		return PlayResult{}, ErrGameNotStarted
	}
	player := g.players[g.currentPlayerIndex]
	if player.ID != playerID {
		return PlayResult{}, ErrNotYourTurn
	}
	if cardIndex < 0 || cardIndex >= len(player.Hand) {
		return PlayResult{}, ErrInvalidCardIndex
	}
	card := player.Hand[cardIndex]
	if !g.isLegalPlayLocked(card, playerID) {
		return PlayResult{}, ErrIllegalCard
	}
	if card.IsWild() && !chosenColor.IsMatchable() {
		return PlayResult{}, ErrIllegalCard
	}

	player.Hand = append(player.Hand[:cardIndex], player.Hand[cardIndex+1:]...)
	g.discardPile = append(g.discardPile, card)

	switch card.Kind {
	case KindWild:
		g.activeColor = chosenColor
	case KindWildDrawFour:
		g.activeColor = chosenColor
		g.pendingDrawFour += 4
	case KindSkip:
		g.activeColor = card.Color
		g.skipNext = true
	case KindReverse:
		g.activeColor = card.Color
		g.direction = -g.direction
		// Reversing a two-player game hands the turn straight back, which
		// is a skip of the opponent.
		if len(g.players) == 2 {
			g.skipNext = true
		}
	case KindDrawTwo:
		g.activeColor = card.Color
		g.pendingDrawTwo += 2
	default:
		g.activeColor = card.Color
	}

	res := PlayResult{
		Card:   card,
		HasUno: len(player.Hand) == 1,
		HasWon: len(player.Hand) == 0,
	}
	g.logAction(playerID, "play_card", map[string]interface{}{
		"card": card.String(), "uno": res.HasUno, "won": res.HasWon,
	})

	if res.HasWon {
		winner := playerID
		g.winner = &winner
		g.started = false
		g.logAction(playerID, "game_end", map[string]interface{}{"winner": playerID.String()})
	} else {
		g.nextTurn()
	}
	return res, nil
}

// nextTurn applies any accumulated draw penalty to the player who would act
// next (they draw and are skipped), then advances the turn pointer, honoring
// a pending skip, and resets every per-turn draw flag. Caller holds the lock.
func (g *UnoGame) nextTurn() {
	n := len(g.players)
	if n == 0 {
		return
	}
	if total := g.pendingDrawTwo + g.pendingDrawFour; total > 0 {
		victim := g.players[(g.currentPlayerIndex+g.direction+n)%n]
		for i := 0; i < total; i++ {
			c, err := g.drawFromDeck()
			if err != nil {
				g.logger.WithField("game", g.Code).Warn("deck exhausted applying draw penalty")
				break
			}
			victim.Hand = append(victim.Hand, c)
		}
		g.pendingDrawTwo = 0
		g.pendingDrawFour = 0
		g.skipNext = true
	}

	g.currentPlayerIndex = (g.currentPlayerIndex + g.direction + n) % n
	if g.skipNext {
		g.currentPlayerIndex = (g.currentPlayerIndex + g.direction + n) % n
		g.skipNext = false
	}
	for _, p := range g.players {
		p.HasDrawnThisTurn = false
	}
}

// DrawCardForPlayer gives the current player one card from the deck, at most
// once per turn. The turn does not advance; the player may still play the
// drawn card or pass.
func (g *UnoGame) DrawCardForPlayer(playerID uuid.UUID) (Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		return Card{}, ErrGameNotStarted
	}
	player := g.players[g.currentPlayerIndex]
	if player.ID != playerID {
		return Card{}, ErrNotYourTurn
	}
	if player.HasDrawnThisTurn {
		return Card{}, ErrAlreadyDrawn
	}
	c, err := g.drawFromDeck()
	if err != nil {
		return Card{}, err
	}
	player.Hand = append(player.Hand, c)
	player.HasDrawnThisTurn = true
	g.logAction(playerID, "draw_card", nil)
	return c, nil
}

// PassTurn ends the current player's turn. Passing is only allowed after
// drawing this turn; draw-or-play is the turn discipline.
func (g *UnoGame) PassTurn(playerID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		return ErrGameNotStarted
	}
	player := g.players[g.currentPlayerIndex]
	if player.ID != playerID {
		return ErrNotYourTurn
	}
	if !player.HasDrawnThisTurn {
		return ErrMustDrawFirst
	}
	g.nextTurn()
	g.logAction(playerID, "pass_turn", nil)
	return nil
}

// drawFromDeck draws one card, reclaiming the discard pile (minus its top
// card) into the deck when the deck runs dry. Caller holds the lock.
func (g *UnoGame) drawFromDeck() (Card, error) {
	if g.deck.Len() == 0 && len(g.discardPile) > 1 {
		top := g.discardPile[len(g.discardPile)-1]
		reclaimed := make([]Card, len(g.discardPile)-1)
		copy(reclaimed, g.discardPile[:len(g.discardPile)-1])
		g.discardPile = g.discardPile[:0]
		g.discardPile = append(g.discardPile, top)
		g.deck.Refill(reclaimed)
		g.logger.WithFields(logrus.Fields{"game": g.Code, "reclaimed": len(reclaimed)}).
			Info("reshuffled discard pile into deck")
	}
	return g.deck.Draw()
}

// Snapshot returns the public view of the game: hands redacted to counts,
// top discard, active color and turn state. This is the only state that is
// broadcast to every participant.
func (g *UnoGame) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap := Snapshot{
		Code:               g.Code,
		Players:            make([]PlayerView, len(g.players)),
		CurrentPlayerIndex: g.currentPlayerIndex,
		ActiveColor:        g.activeColor,
		DeckCount:          g.deck.Len(),
		Direction:          g.direction,
		Started:            g.started,
	}
	for i, p := range g.players {
		snap.Players[i] = PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			CardCount: len(p.Hand),
			HasDrawn:  p.HasDrawnThisTurn,
		}
	}
	if len(g.discardPile) > 0 {
		top := g.discardPile[len(g.discardPile)-1]
		snap.TopCard = &top
	}
	return snap
}

// HandForPlayer returns a copy of one player's hand for unicast delivery.
func (g *UnoGame) HandForPlayer(playerID uuid.UUID) []Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.players {
		if p.ID == playerID {
			hand := make([]Card, len(p.Hand))
			copy(hand, p.Hand)
			return hand
		}
	}
	return nil
}

// PlayerIDs returns the seated ids in order, for adapter fan-out.
func (g *UnoGame) PlayerIDs() []uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]uuid.UUID, len(g.players))
	for i, p := range g.players {
		ids[i] = p.ID
	}
	return ids
}

// logAction pushes an append-only action record to the historian queue.
// Best effort: when Redis is not configured the record is dropped, and live
// game state is never affected either way.
func (g *UnoGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorID:       actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	logger := g.logger
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			logger.WithError(err).Debug("failed to publish game action")
		}
	}(record)
}
