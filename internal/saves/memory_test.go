package saves

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/bot"
	"github.com/jason-s-yu/bang/internal/catalog"
	"github.com/jason-s-yu/bang/internal/game"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	snap := &game.GameSnapshot{GameID: uuid.New(), CurrentID: uuid.New(), Rules: game.DefaultHouseRules()}
	a, err := mem.Save(ctx, snap)
	require.NoError(t, err)
	b, err := mem.Save(ctx, snap)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// later changes to snap do not reach the stored copy
	snap.CurrentID = uuid.Nil
	got, err := mem.Load(ctx, a)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.CurrentID)

	list, err := mem.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[a].Before(list[b]))

	_, err = mem.Load(ctx, 99)
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestMemoryWithManager(t *testing.T) {
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	mem := NewMemory()

	m := game.NewGameManager(catalog.Builtin{}, bot.NewRandom(4), game.Options{Seed: 4, Logger: logger, Saves: mem})
	seats := make([]game.Seat, 6)
	for i := range seats {
		seats[i] = game.Seat{ID: uuid.New(), Name: "p"}
	}
	require.NoError(t, m.Init(ctx, seats))
	_, err := bot.NewDriver(4).PlayTurn(ctx, m)
	require.NoError(t, err)

	id, err := m.Save(ctx)
	require.NoError(t, err)
	current := m.Current().ID

	fresh := game.NewGameManager(catalog.Builtin{}, bot.NewRandom(4), game.Options{Seed: 5, Logger: logger, Saves: mem})
	require.NoError(t, fresh.Load(ctx, id))
	assert.Equal(t, current, fresh.Current().ID)
	assert.Equal(t, m.GameID(), fresh.GameID())
	assert.Len(t, fresh.CardCensus(), 80)
}
