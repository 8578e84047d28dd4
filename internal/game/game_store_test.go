// internal/game/game_store_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStore(t *testing.T) {
	store := NewGameStore()
	assert.Equal(t, 0, store.Len())

	running, _, _ := newTable(t, classicRoles...)
	done, _, _ := newTable(t, classicRoles...)
	done.winner = SheriffWin

	runningID := store.AddGame(running)
	doneID := store.AddGame(done)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, running.GameID(), runningID)

	got, ok := store.GetGame(doneID)
	require.True(t, ok)
	assert.Same(t, done, got)
	assert.Equal(t, []uuid.UUID{doneID}, store.Finished())

	store.DeleteGame(doneID)
	assert.Equal(t, 1, store.Len())
	assert.Empty(t, store.Finished())
	_, ok = store.GetGame(doneID)
	assert.False(t, ok)
}
