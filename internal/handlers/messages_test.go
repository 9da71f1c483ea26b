// internal/handlers/messages_test.go
package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamed-Samehh/UNO/internal/game"
)

func TestIntentDecoding(t *testing.T) {
	t.Run("play_card with index zero", func(t *testing.T) {
		var in Intent
		require.NoError(t, json.Unmarshal(
			[]byte(`{"type":"play_card","cardIndex":0,"chosenColor":"blue"}`), &in))
		assert.Equal(t, IntentPlayCard, in.Type)
		require.NotNil(t, in.CardIndex, "index zero survives decoding")
		assert.Equal(t, 0, *in.CardIndex)
		assert.Equal(t, "blue", in.ChosenColor)
	})

	t.Run("play_card without index", func(t *testing.T) {
		var in Intent
		require.NoError(t, json.Unmarshal([]byte(`{"type":"play_card"}`), &in))
		assert.Nil(t, in.CardIndex, "missing index stays distinguishable")
	})

	t.Run("join_game", func(t *testing.T) {
		var in Intent
		require.NoError(t, json.Unmarshal(
			[]byte(`{"type":"join_game","code":"AB12CD","name":"alice"}`), &in))
		assert.Equal(t, IntentJoinGame, in.Type)
		assert.Equal(t, "AB12CD", in.Code)
		assert.Equal(t, "alice", in.Name)
	})
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, game.ColorRed, parseColor("red"))
	assert.Equal(t, game.ColorYellow, parseColor("yellow"))
	assert.Equal(t, game.Color(""), parseColor(""))
	assert.Equal(t, game.Color(""), parseColor("wild"))
	assert.Equal(t, game.Color(""), parseColor("purple"))
	assert.Equal(t, game.Color(""), parseColor("RED"), "colors are case-sensitive on the wire")
}

func TestEventOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(Event{Type: EventPong})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(raw))
}

func TestExtractCookieToken(t *testing.T) {
	assert.Equal(t, "abc123",
		extractCookieToken("auth_token=abc123", "auth_token"))
	assert.Equal(t, "abc123",
		extractCookieToken("other=x; auth_token=abc123; theme=dark", "auth_token"))
	assert.Equal(t, "",
		extractCookieToken("other=x; theme=dark", "auth_token"))
	assert.Equal(t, "",
		extractCookieToken("", "auth_token"))
}
