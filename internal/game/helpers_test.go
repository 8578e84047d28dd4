// internal/game/helpers_test.go
package game

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster collects events instead of sending them anywhere.
type mockBroadcaster struct {
	mu        sync.Mutex
	allEvents []GameEvent
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = nil
}

func (mb *mockBroadcaster) ofType(t GameEventType) []GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var out []GameEvent
	for _, ev := range mb.allEvents {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// scriptedInteractor answers from queues. An empty player or card queue answers with
// the first candidate; confirms default to false.
type scriptedInteractor struct {
	players  []uuid.UUID
	cards    []uuid.UUID
	confirms map[uuid.UUID]bool
	failing  map[uuid.UUID]error

	playerCalls  int
	cardCalls    int
	confirmCalls int
	lastUnknown  int
}

func newScripted() *scriptedInteractor {
	return &scriptedInteractor{confirms: map[uuid.UUID]bool{}}
}

func (si *scriptedInteractor) ChoosePlayer(_ context.Context, candidates []uuid.UUID, _ uuid.UUID) (uuid.UUID, error) {
	si.playerCalls++
	if len(si.players) == 0 {
		return candidates[0], nil
	}
	id := si.players[0]
	si.players = si.players[1:]
	return id, nil
}

func (si *scriptedInteractor) ChooseCard(_ context.Context, candidates []*models.Card, unknown int, _ uuid.UUID) (uuid.UUID, error) {
	si.cardCalls++
	si.lastUnknown = unknown
	if len(si.cards) == 0 {
		return candidates[0].ID, nil
	}
	id := si.cards[0]
	si.cards = si.cards[1:]
	return id, nil
}

func (si *scriptedInteractor) Confirm(_ context.Context, player uuid.UUID, _ models.CardName) (bool, error) {
	si.confirmCalls++
	if err := si.failing[player]; err != nil {
		return false, err
	}
	return si.confirms[player], nil
}

// fixedSource hands out a fixed card list, or fails with err.
type fixedSource struct {
	cards []*models.Card
	err   error
}

func (fs fixedSource) GetAll(context.Context) ([]*models.Card, error) {
	if fs.err != nil {
		return nil, fs.err
	}
	out := make([]*models.Card, len(fs.cards))
	for i, c := range fs.cards {
		out[i] = models.NewCard(c.Name, c.Suit, c.Rank)
	}
	return out, nil
}

// fillerCards returns n harmless cards (Stagecoach of Diamonds).
func fillerCards(n int) []*models.Card {
	cards := make([]*models.Card, n)
	for i := range cards {
		cards[i] = models.NewCard(models.Stagecoach, models.Diamonds, models.Ace)
	}
	return cards
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTable builds a running game by hand: one player per role in seat order, empty
// hands, the first player current, and a draw pile of filler cards.
func newTable(t *testing.T, roles ...models.Role) (*GameManager, *scriptedInteractor, *mockBroadcaster) {
	t.Helper()
	si := newScripted()
	mb := &mockBroadcaster{}
	m := NewGameManager(fixedSource{}, si, Options{Seed: 7, Logger: quietLogger(), EventFn: mb.broadcastFn})
	s := m.newState(uuid.New(), restoreDeck(fillerCards(30), nil, m.rng))
	for i, r := range roles {
		health := m.rules.PlayerHealth
		if r == models.Sheriff {
			health = m.rules.SheriffHealth
		}
		s.Players = append(s.Players, models.NewPlayer(uuid.New(), string(rune('A'+i)), r, health))
	}
	require.NotEmpty(t, s.Players)
	s.CurrentID = s.Players[0].ID
	m.state = s
	m.winner = Ok
	return m, si, mb
}

// classicRoles is a four-player table with the Sheriff first.
var classicRoles = []models.Role{models.Sheriff, models.Outlaw, models.Renegade, models.Outlaw}

func seat(m *GameManager, i int) *models.Player {
	return m.state.Players[i]
}

func give(p *models.Player, cards ...*models.Card) {
	for _, c := range cards {
		p.AddToHand(c)
	}
}

func card(name models.CardName, suit models.Suit, rank models.Rank) *models.Card {
	return models.NewCard(name, suit, rank)
}

// stack puts cards on top of the draw pile, cards[0] drawn first.
func stack(m *GameManager, cards ...*models.Card) {
	m.state.Deck.ReturnToTop(cards)
}

// censusOf returns the census as a set, failing on duplicates.
func censusOf(t *testing.T, m *GameManager) map[uuid.UUID]bool {
	t.Helper()
	ids := m.CardCensus()
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		require.False(t, set[id], "card %s appears twice", id)
		set[id] = true
	}
	return set
}
