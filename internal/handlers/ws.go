// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Mohamed-Samehh/UNO/internal/auth"
	"github.com/Mohamed-Samehh/UNO/internal/game"
)

// WSHandler upgrades the HTTP connection, assigns the connection a guest
// identity, and runs the read loop that routes intents into the engine. One
// connection is one player; closing it removes the player from their game.
func WSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := ensureGuest(w, r)
		if err != nil {
			logger.WithError(err).Warn("guest authentication failed")
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"uno"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.WithError(err).Warn("websocket accept error")
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error")

		logger.WithFields(logrus.Fields{"player": playerID, "remote": r.RemoteAddr}).
			Info("websocket connected")
		gs.registerConn(playerID, c)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readIntents(ctx, c, gs, playerID, logger)

		// Cleanup after the read loop exits: unseat the player and tell the
		// rest of their game, if one survives them.
		gs.unregisterConn(playerID)
		if g, ok := gs.Registry.Remove(playerID); ok {
			id := playerID
			gs.broadcast(g, Event{Type: EventPlayerLeft, PlayerID: &id})
			gs.broadcastState(g)
		}
		logger.WithField("player", playerID).Info("websocket disconnected")
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readIntents reads and dispatches client messages until the connection
// drops or the context is cancelled.
func readIntents(ctx context.Context, c *websocket.Conn, gs *GameServer, playerID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return
			}
			if !strings.Contains(err.Error(), "context canceled") {
				logger.WithError(err).WithField("player", playerID).Warn("websocket read error")
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var intent Intent
		if err := json.Unmarshal(data, &intent); err != nil {
			logger.WithError(err).WithField("player", playerID).Warn("invalid intent json")
			gs.sendToPlayer(playerID, Event{Type: EventError, Message: "invalid JSON"})
			continue
		}

		logger.WithFields(logrus.Fields{"player": playerID, "intent": intent.Type}).Debug("intent received")
		gs.handleIntent(playerID, intent)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// handleIntent resolves the player's game and invokes the matching engine
// operation. Rejections go back to the originating connection only; state
// changes fan out to everyone seated.
func (gs *GameServer) handleIntent(playerID uuid.UUID, intent Intent) {
	switch intent.Type {
	case IntentCreateGame:
		gs.handleCreate(playerID, intent)
	case IntentJoinGame:
		gs.handleJoin(playerID, intent)
	case IntentStartGame:
		gs.handleStart(playerID)
	case IntentPlayCard:
		gs.handlePlay(playerID, intent)
	case IntentDrawCard:
		gs.handleDraw(playerID)
	case IntentPassTurn:
		gs.handlePass(playerID)
	case IntentPing:
		gs.sendToPlayer(playerID, Event{Type: EventPong})
	default:
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: fmt.Sprintf("unknown intent type: %s", intent.Type)})
	}
}

func (gs *GameServer) handleCreate(playerID uuid.UUID, intent Intent) {
	if _, ok := gs.Registry.Resolve(playerID); ok {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: "already in a game"})
		return
	}
	g, err := gs.Registry.Create(playerID, displayName(intent.Name))
	if err != nil {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: err.Error()})
		return
	}
	id := playerID
	gs.sendToPlayer(playerID, Event{Type: EventGameCreated, Code: g.Code, PlayerID: &id})
	gs.broadcastState(g)
}

func (gs *GameServer) handleJoin(playerID uuid.UUID, intent Intent) {
	if _, ok := gs.Registry.Resolve(playerID); ok {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: "already in a game"})
		return
	}
	code := strings.ToUpper(strings.TrimSpace(intent.Code))
	// Joining a game mid-play is an adapter-level rejection; the engine only
	// enforces the seat cap.
	if g, ok := gs.Registry.Lookup(code); ok && g.Started() {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: "game already started"})
		return
	}
	g, err := gs.Registry.Join(code, playerID, displayName(intent.Name))
	if err != nil {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: err.Error()})
		return
	}
	id := playerID
	gs.sendToPlayer(playerID, Event{Type: EventGameJoined, Code: g.Code, PlayerID: &id})
	gs.broadcastState(g)
}

func (gs *GameServer) handleStart(playerID uuid.UUID) {
	g, ok := gs.Registry.Resolve(playerID)
	if !ok {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: game.ErrGameNotFound.Error()})
		return
	}
	if err := g.Start(); err != nil {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: err.Error()})
		return
	}
	gs.broadcast(g, Event{Type: EventGameStarted})
	gs.broadcastState(g)
	gs.sendHands(g)
}

func (gs *GameServer) handlePlay(playerID uuid.UUID, intent Intent) {
	g, ok := gs.Registry.Resolve(playerID)
	if !ok {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: game.ErrGameNotFound.Error()})
		return
	}
	if intent.CardIndex == nil {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: game.ErrInvalidCardIndex.Error()})
		return
	}
	res, err := g.PlayCard(*intent.CardIndex, playerID, parseColor(intent.ChosenColor))
	if err != nil {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: err.Error()})
		return
	}

	id := playerID
	card := res.Card
	gs.broadcast(g, Event{
		Type:     EventCardPlayed,
		PlayerID: &id,
		Card:     &card,
		HasUno:   res.HasUno,
		HasWon:   res.HasWon,
	})
	gs.broadcastState(g)
	gs.sendHands(g)

	if res.HasWon {
		winner := playerID
		gs.broadcast(g, Event{Type: EventGameWon, Winner: &winner})
		gs.Registry.Destroy(g.Code)
	}
}

func (gs *GameServer) handleDraw(playerID uuid.UUID) {
	g, ok := gs.Registry.Resolve(playerID)
	if !ok {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: game.ErrGameNotFound.Error()})
		return
	}
	card, err := g.DrawCardForPlayer(playerID)
	if err != nil {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: err.Error()})
		return
	}
	gs.sendToPlayer(playerID, Event{Type: EventCardDrawn, Card: &card})
	gs.sendToPlayer(playerID, Event{Type: EventPlayerHand, Hand: g.HandForPlayer(playerID)})
	gs.broadcastState(g)
}

func (gs *GameServer) handlePass(playerID uuid.UUID) {
	g, ok := gs.Registry.Resolve(playerID)
	if !ok {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: game.ErrGameNotFound.Error()})
		return
	}
	if err := g.PassTurn(playerID); err != nil {
		gs.sendToPlayer(playerID, Event{Type: EventError, Message: err.Error()})
		return
	}
	gs.broadcastState(g)
}

// ensureGuest returns the player id from the auth_token cookie, minting a
// fresh guest identity (and setting the cookie) when the token is missing
// or invalid.
func ensureGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if token := extractCookieToken(r.Header.Get("Cookie"), "auth_token"); token != "" {
		if sub, err := auth.AuthenticateJWT(token); err == nil {
			if id, err := uuid.Parse(sub); err == nil {
				return id, nil
			}
		}
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to generate player id: %w", err)
	}
	token, err := auth.CreateJWT(id.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create guest token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return id, nil
}

// displayName trims a client-supplied name, defaulting anonymous players to
// "Guest".
func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Guest"
	}
	return name
}
