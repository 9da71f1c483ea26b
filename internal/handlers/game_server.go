// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Mohamed-Samehh/UNO/internal/game"
)

// GameServer holds the game registry and the table of live WebSocket
// connections, and fans engine results out to the players they concern.
type GameServer struct {
	Registry *game.GameRegistry
	logger   *logrus.Logger

	mu    sync.Mutex
	conns map[uuid.UUID]*websocket.Conn
}

// NewGameServer wires a fresh registry and connection table.
func NewGameServer(logger *logrus.Logger) *GameServer {
	if logger == nil {
		logger = logrus.New()
	}
	return &GameServer{
		Registry: game.NewGameRegistry(logger),
		logger:   logger,
		conns:    make(map[uuid.UUID]*websocket.Conn),
	}
}

func (gs *GameServer) registerConn(id uuid.UUID, c *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.conns[id] = c
}

func (gs *GameServer) unregisterConn(id uuid.UUID) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	delete(gs.conns, id)
}

func (gs *GameServer) connFor(id uuid.UUID) (*websocket.Conn, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	c, ok := gs.conns[id]
	return c, ok
}

// sendToPlayer unicasts one event. Write failures are logged and left for
// the player's read loop to surface as a disconnect.
func (gs *GameServer) sendToPlayer(id uuid.UUID, ev Event) {
	c, ok := gs.connFor(id)
	if !ok {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		gs.logger.WithError(err).WithField("event", ev.Type).Error("failed to marshal event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		gs.logger.WithError(err).WithFields(logrus.Fields{
			"player": id, "event": ev.Type,
		}).Warn("failed to write event")
	}
}

// broadcast sends one event to every seated player of a game.
func (gs *GameServer) broadcast(g *game.UnoGame, ev Event) {
	for _, id := range g.PlayerIDs() {
		gs.sendToPlayer(id, ev)
	}
}

// broadcastState pushes the redacted snapshot to everyone in the game. Called
// after every state change.
func (gs *GameServer) broadcastState(g *game.UnoGame) {
	snap := g.Snapshot()
	gs.broadcast(g, Event{Type: EventGameState, State: &snap})
}

// sendHands unicasts each player their own hand.
func (gs *GameServer) sendHands(g *game.UnoGame) {
	for _, id := range g.PlayerIDs() {
		gs.sendToPlayer(id, Event{Type: EventPlayerHand, Hand: g.HandForPlayer(id)})
	}
}
