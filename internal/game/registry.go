// internal/game/registry.go
package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	codeLength  = 6
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GameRegistry owns every live table: it maps join codes to games and
// connection ids to the code of the game they sit in. A single instance is
// constructed at startup and injected into the transport layer, so engines
// stay unit-testable without one.
type GameRegistry struct {
	mu          sync.Mutex
	games       map[string]*UnoGame
	playerGames map[uuid.UUID]string
	rng         *rand.Rand
	logger      *logrus.Logger
}

// NewGameRegistry builds an empty registry with a time-seeded code source.
func NewGameRegistry(logger *logrus.Logger) *GameRegistry {
	return NewGameRegistryWithRand(logger, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGameRegistryWithRand is NewGameRegistry with an injected random source.
func NewGameRegistryWithRand(logger *logrus.Logger, rng *rand.Rand) *GameRegistry {
	if logger == nil {
		logger = logrus.New()
	}
	return &GameRegistry{
		games:       make(map[string]*UnoGame),
		playerGames: make(map[uuid.UUID]string),
		rng:         rng,
		logger:      logger,
	}
}

// Create constructs a new game under a collision-checked code and seats the
// creator as its first player.
func (r *GameRegistry) Create(creatorID uuid.UUID, name string) (*UnoGame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := r.newCode()
	// Each game gets its own random source: games run on independent
	// handler goroutines, and a shared *rand.Rand is not safe for
	// concurrent shuffles.
	g := NewUnoGameWithRand(code, r.logger, rand.New(rand.NewSource(r.rng.Int63())))
	if err := g.AddPlayer(creatorID, name); err != nil {
		return nil, err
	}
	r.games[code] = g
	r.playerGames[creatorID] = code
	r.logger.WithFields(logrus.Fields{"game": code, "creator": creatorID}).Info("game created")
	return g, nil
}

// Join seats a player in the game identified by code.
func (r *GameRegistry) Join(code string, id uuid.UUID, name string) (*UnoGame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[code]
	if !ok {
		return nil, ErrGameNotFound
	}
	if err := g.AddPlayer(id, name); err != nil {
		return nil, err
	}
	r.playerGames[id] = code
	return g, nil
}

// Lookup returns the game registered under a join code, if any.
func (r *GameRegistry) Lookup(code string) (*UnoGame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[code]
	return g, ok
}

// Resolve returns the game a connection belongs to, if any.
func (r *GameRegistry) Resolve(connID uuid.UUID) (*UnoGame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.playerGames[connID]
	if !ok {
		return nil, false
	}
	g, ok := r.games[code]
	return g, ok
}

// Remove unseats a connection from its game, idempotently, and destroys the
// game once its last player leaves. Games that merely fall below two
// players stay registered (paused) so the remainder can regroup.
func (r *GameRegistry) Remove(connID uuid.UUID) (*UnoGame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.playerGames[connID]
	if !ok {
		return nil, false
	}
	delete(r.playerGames, connID)
	g, ok := r.games[code]
	if !ok {
		return nil, false
	}
	g.RemovePlayer(connID)
	if g.PlayerCount() == 0 {
		delete(r.games, code)
		r.logger.WithField("game", code).Info("game destroyed")
		return nil, false
	}
	return g, true
}

// Destroy drops a game and every connection mapping pointing at it.
func (r *GameRegistry) Destroy(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, code)
	for id, c := range r.playerGames {
		if c == code {
			delete(r.playerGames, id)
		}
	}
}

// Len returns the number of live games.
func (r *GameRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}

// newCode generates a 6-character uppercase alphanumeric code not currently
// in use. Caller holds the lock.
func (r *GameRegistry) newCode() string {
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = codeCharset[r.rng.Intn(len(codeCharset))]
		}
		code := string(buf)
		if _, taken := r.games[code]; !taken {
			return code
		}
	}
}
