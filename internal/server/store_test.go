package server

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltops/holdem/holdem"
)

// midHandState builds a table two actions into a hand, so round-trip
// tests cover transient fields (deck, bets, pots) and not only the
// idle shape.
func midHandState(t *testing.T) *holdem.GameState {
	t.Helper()
	game, err := holdem.NewGame(holdem.Config{
		ID: "t-store", SmallBlind: 5, BigBlind: 10, Seed: 17,
		Players: []holdem.PlayerConfig{
			{ID: "a", Name: "A", Stack: 1000},
			{ID: "b", Name: "B", Stack: 1000},
			{ID: "c", Name: "C", Stack: 1000},
		},
	})
	require.NoError(t, err)
	require.True(t, game.StartHand())
	require.True(t, game.ExecuteAction("a", holdem.Action{Type: holdem.ActionRaise, Amount: 30}))
	require.True(t, game.ExecuteAction("b", holdem.Action{Type: holdem.ActionCall}))
	return game
}

func testStoreRoundTrip(t *testing.T, store Store) {
	ctx := context.Background()
	saved := midHandState(t)

	require.NoError(t, store.SaveTable(ctx, saved))

	loaded, err := store.LoadTable(ctx, saved.ID)
	require.NoError(t, err)

	savedJSON, err := json.Marshal(saved)
	require.NoError(t, err)
	loadedJSON, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(savedJSON), string(loadedJSON))

	// The reloaded hand keeps playing: same active player, and the
	// action stream continues without error.
	assert.Equal(t, saved.ActivePlayerID(), loaded.ActivePlayerID())
	assert.True(t, loaded.ExecuteAction("c", holdem.Action{Type: holdem.ActionCall}))
}

func testStoreLifecycle(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.LoadTable(ctx, "missing")
	assert.ErrorIs(t, err, ErrTableNotFound)

	for _, id := range []string{"zeta", "alpha"} {
		game, err := holdem.NewGame(holdem.Config{
			ID: id, SmallBlind: 1, BigBlind: 2,
			Players: []holdem.PlayerConfig{
				{ID: "x", Stack: 100}, {ID: "y", Stack: 100},
			},
		})
		require.NoError(t, err)
		require.NoError(t, store.SaveTable(ctx, game))
	}

	ids, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, ids)

	// Saving again overwrites, not duplicates.
	saved := midHandState(t)
	require.NoError(t, store.SaveTable(ctx, saved))
	require.NoError(t, store.SaveTable(ctx, saved))
	ids, err = store.ListTables(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	require.NoError(t, store.DeleteTable(ctx, "zeta"))
	ids, err = store.ListTables(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, "zeta")
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		testStoreRoundTrip(t, NewMemoryStore())
	})
	t.Run("lifecycle", func(t *testing.T) {
		testStoreLifecycle(t, NewMemoryStore())
	})
	t.Run("load does not alias", func(t *testing.T) {
		store := NewMemoryStore()
		ctx := context.Background()
		saved := midHandState(t)
		require.NoError(t, store.SaveTable(ctx, saved))

		first, err := store.LoadTable(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, first.ExecuteAction("c", holdem.Action{Type: holdem.ActionFold}))

		second, err := store.LoadTable(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "c", second.ActivePlayerID(), "mutating one load must not leak into the next")
	})
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	newStore := func(t *testing.T) *SQLiteStore {
		store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tables.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return store
	}

	t.Run("round trip", func(t *testing.T) {
		testStoreRoundTrip(t, newStore(t))
	})
	t.Run("lifecycle", func(t *testing.T) {
		testStoreLifecycle(t, newStore(t))
	})
	t.Run("survives reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tables.db")
		ctx := context.Background()
		saved := midHandState(t)

		store, err := NewSQLiteStore(path)
		require.NoError(t, err)
		require.NoError(t, store.SaveTable(ctx, saved))
		require.NoError(t, store.Close())

		reopened, err := NewSQLiteStore(path)
		require.NoError(t, err)
		defer reopened.Close()

		loaded, err := reopened.LoadTable(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved.HandNumber, loaded.HandNumber)
		assert.Equal(t, saved.ActivePlayerID(), loaded.ActivePlayerID())
	})
}
