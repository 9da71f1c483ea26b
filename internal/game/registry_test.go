// internal/game/registry_test.go
package game

import (
	"math/rand"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *GameRegistry {
	return NewGameRegistryWithRand(testLogger(), rand.New(rand.NewSource(1)))
}

func TestRegistryCreateAndResolve(t *testing.T) {
	r := newTestRegistry()
	creator := uuid.New()

	g, err := r.Create(creator, "alice")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), g.Code)
	assert.Equal(t, 1, g.PlayerCount())
	assert.Equal(t, 1, r.Len())

	byCode, ok := r.Lookup(g.Code)
	require.True(t, ok)
	assert.Same(t, g, byCode)

	byConn, ok := r.Resolve(creator)
	require.True(t, ok)
	assert.Same(t, g, byConn)

	_, ok = r.Lookup("NOPE00")
	assert.False(t, ok)
	_, ok = r.Resolve(uuid.New())
	assert.False(t, ok)
}

func TestRegistryCodesAreUnique(t *testing.T) {
	r := newTestRegistry()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		g, err := r.Create(uuid.New(), "p")
		require.NoError(t, err)
		assert.False(t, seen[g.Code], "duplicate code %s", g.Code)
		seen[g.Code] = true
	}
}

// TestRegistryGamesRunConcurrently starts several registry-created games in
// parallel. Each game shuffles with its own random source, so this is clean
// under the race detector.
func TestRegistryGamesRunConcurrently(t *testing.T) {
	r := newTestRegistry()
	games := make([]*UnoGame, 8)
	for i := range games {
		g, err := r.Create(uuid.New(), "host")
		require.NoError(t, err)
		_, err = r.Join(g.Code, uuid.New(), "guest")
		require.NoError(t, err)
		games[i] = g
	}

	var wg sync.WaitGroup
	for _, g := range games {
		wg.Add(1)
		go func(g *UnoGame) {
			defer wg.Done()
			assert.NoError(t, g.Start())
		}(g)
	}
	wg.Wait()

	for _, g := range games {
		assert.True(t, g.Started())
		assert.Equal(t, 2, g.PlayerCount())
	}
}

func TestRegistryJoin(t *testing.T) {
	r := newTestRegistry()
	g, err := r.Create(uuid.New(), "host")
	require.NoError(t, err)

	joiner := uuid.New()
	joined, err := r.Join(g.Code, joiner, "bob")
	require.NoError(t, err)
	assert.Same(t, g, joined)
	assert.Equal(t, 2, g.PlayerCount())

	resolved, ok := r.Resolve(joiner)
	require.True(t, ok)
	assert.Same(t, g, resolved)

	_, err = r.Join("ZZZZZZ", uuid.New(), "lost")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestRegistryJoinFullGame(t *testing.T) {
	r := newTestRegistry()
	g, err := r.Create(uuid.New(), "host")
	require.NoError(t, err)
	for i := 1; i < MaxPlayers; i++ {
		_, err := r.Join(g.Code, uuid.New(), "p")
		require.NoError(t, err)
	}

	overflow := uuid.New()
	_, err = r.Join(g.Code, overflow, "late")
	assert.ErrorIs(t, err, ErrGameFull)
	_, ok := r.Resolve(overflow)
	assert.False(t, ok, "rejected joiner is not mapped to the game")
}

func TestRegistryRemove(t *testing.T) {
	r := newTestRegistry()
	host := uuid.New()
	g, err := r.Create(host, "host")
	require.NoError(t, err)
	joiner := uuid.New()
	_, err = r.Join(g.Code, joiner, "bob")
	require.NoError(t, err)

	// First leaver: the game survives with one seat.
	left, alive := r.Remove(joiner)
	require.True(t, alive)
	assert.Same(t, g, left)
	assert.Equal(t, 1, g.PlayerCount())
	assert.Equal(t, 1, r.Len())

	// Removing an unknown or already-removed id is a no-op.
	_, alive = r.Remove(joiner)
	assert.False(t, alive)
	_, alive = r.Remove(uuid.New())
	assert.False(t, alive)
	assert.Equal(t, 1, r.Len())

	// Last leaver destroys the game.
	_, alive = r.Remove(host)
	assert.False(t, alive)
	assert.Equal(t, 0, r.Len())
	_, ok := r.Lookup(g.Code)
	assert.False(t, ok)
}

func TestRegistryStartedGamePausesWhenPlayersLeave(t *testing.T) {
	r := newTestRegistry()
	host := uuid.New()
	g, err := r.Create(host, "host")
	require.NoError(t, err)
	joiner := uuid.New()
	_, err = r.Join(g.Code, joiner, "bob")
	require.NoError(t, err)
	require.NoError(t, g.Start())

	_, alive := r.Remove(joiner)
	require.True(t, alive)
	assert.False(t, g.Started(), "game pauses rather than being destroyed")
	assert.Equal(t, 1, r.Len())
}

func TestRegistryDestroy(t *testing.T) {
	r := newTestRegistry()
	host := uuid.New()
	g, err := r.Create(host, "host")
	require.NoError(t, err)

	r.Destroy(g.Code)
	assert.Equal(t, 0, r.Len())
	_, ok := r.Lookup(g.Code)
	assert.False(t, ok)
	_, ok = r.Resolve(host)
	assert.False(t, ok, "connection mappings are cleared with the game")
}
