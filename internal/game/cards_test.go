// internal/game/cards_test.go
package game

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBangHitsAdjacentPlayer(t *testing.T) {
	m, si, _ := newTable(t, classicRoles...)
	a, b := seat(m, 0), seat(m, 1)
	bang := card(models.Bang, models.Spades, models.Ace)
	give(a, bang)
	si.players = []uuid.UUID{b.ID}

	out, err := m.PlayCard(context.Background(), bang.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, 3, b.Health)
	assert.Same(t, bang, m.TopDiscard())
	assert.True(t, a.BangPlayed)
	assert.Empty(t, a.Hand)
}

func TestSecondBangNeedsVolcanic(t *testing.T) {
	ctx := context.Background()
	m, si, _ := newTable(t, classicRoles...)
	a, b := seat(m, 0), seat(m, 1)
	first := card(models.Bang, models.Spades, models.Ace)
	second := card(models.Bang, models.Hearts, models.Ace)
	give(a, first, second)
	si.players = []uuid.UUID{b.ID, b.ID}

	out, err := m.PlayCard(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, Ok, out)

	out, err = m.PlayCard(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, CantPlay, out)
	assert.Equal(t, 3, b.Health)
	assert.NotNil(t, a.HandCard(second.ID), "refused card stays in hand")

	a.Weapon = card(models.Volcanic, models.Spades, models.Ten)
	out, err = m.PlayCard(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, 2, b.Health)
}

func TestBangOutOfRange(t *testing.T) {
	ctx := context.Background()
	m, si, _ := newTable(t, classicRoles...)
	a, c := seat(m, 0), seat(m, 2)
	bang := card(models.Bang, models.Spades, models.Ace)
	give(a, bang)
	si.players = []uuid.UUID{c.ID}

	out, err := m.PlayCard(ctx, bang.ID)
	require.NoError(t, err)
	assert.Equal(t, TooFar, out)
	assert.False(t, a.BangPlayed)
	assert.Equal(t, 4, c.Health)
	assert.NotNil(t, a.HandCard(bang.ID))

	a.Weapon = card(models.Schofield, models.Clubs, models.Jack)
	si.players = []uuid.UUID{c.ID}
	out, err = m.PlayCard(ctx, bang.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, 3, c.Health)
}

func TestBangAnsweredWithMissed(t *testing.T) {
	ctx := context.Background()
	m, si, _ := newTable(t, classicRoles...)
	a, b := seat(m, 0), seat(m, 1)
	bang := card(models.Bang, models.Spades, models.Ace)
	missed := card(models.Missed, models.Clubs, models.Four)
	give(a, bang)
	give(b, missed)
	si.players = []uuid.UUID{b.ID}
	si.confirms[b.ID] = true

	out, err := m.PlayCard(ctx, bang.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, 4, b.Health)
	assert.Empty(t, b.Hand)
	pile := m.state.Deck.DiscardPile()
	require.Len(t, pile, 2)
	assert.Same(t, missed, pile[0])
	assert.Same(t, bang, pile[1])
}

func TestBangMissedDeclined(t *testing.T) {
	m, si, _ := newTable(t, classicRoles...)
	a, b := seat(m, 0), seat(m, 1)
	bang := card(models.Bang, models.Spades, models.Ace)
	give(a, bang)
	give(b, card(models.Missed, models.Clubs, models.Four))
	si.players = []uuid.UUID{b.ID}

	_, err := m.PlayCard(context.Background(), bang.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Health)
	assert.Len(t, b.Hand, 1)
	assert.Equal(t, 1, si.confirmCalls)
}

func TestBarrelCheck(t *testing.T) {
	tests := []struct {
		name       string
		check      *models.Card
		wantHealth int
		keepBarrel bool
	}{
		{"hearts saves and spends the barrel", card(models.Beer, models.Hearts, models.Two), 4, false},
		{"other suit hits", card(models.Beer, models.Spades, models.Two), 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, si, _ := newTable(t, classicRoles...)
			a, b := seat(m, 0), seat(m, 1)
			barrel := card(models.Barrel, models.Spades, models.Queen)
			b.AddToBoard(barrel)
			bang := card(models.Bang, models.Spades, models.Ace)
			give(a, bang)
			stack(m, tt.check)
			si.players = []uuid.UUID{b.ID}

			_, err := m.PlayCard(context.Background(), bang.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHealth, b.Health)
			assert.Equal(t, tt.keepBarrel, b.OnBoard(models.Barrel) != nil)
			assert.Contains(t, m.state.Deck.DiscardPile(), tt.check)
		})
	}
}

func TestMissedCannotBePlayed(t *testing.T) {
	m, _, _ := newTable(t, classicRoles...)
	missed := card(models.Missed, models.Clubs, models.Four)
	give(seat(m, 0), missed)

	out, err := m.PlayCard(context.Background(), missed.ID)
	require.NoError(t, err)
	assert.Equal(t, CantPlay, out)
	assert.Nil(t, m.TopDiscard())
}

func TestBeer(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTable(t, classicRoles...)
	a := seat(m, 0)
	beer := card(models.Beer, models.Hearts, models.Six)
	give(a, beer)

	out, err := m.PlayCard(ctx, beer.ID)
	require.NoError(t, err)
	assert.Equal(t, CantPlay, out, "full health")

	a.Health = 3
	out, err = m.PlayCard(ctx, beer.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, 4, a.Health)
	assert.Same(t, beer, m.TopDiscard())
}

func TestBeerNeedsThreeAlive(t *testing.T) {
	m, _, _ := newTable(t, models.Sheriff, models.Outlaw, models.Renegade, models.Outlaw)
	a := seat(m, 0)
	seat(m, 1).Dead = true
	seat(m, 3).Dead = true
	a.Health = 2
	beer := card(models.Beer, models.Hearts, models.Six)
	give(a, beer)

	out, err := m.PlayCard(context.Background(), beer.ID)
	require.NoError(t, err)
	assert.Equal(t, CantPlay, out)
	assert.Equal(t, 2, a.Health)
}

func TestPanic(t *testing.T) {
	ctx := context.Background()

	t.Run("steals from hand", func(t *testing.T) {
		m, si, _ := newTable(t, classicRoles...)
		a, b := seat(m, 0), seat(m, 1)
		loot := card(models.Beer, models.Hearts, models.Nine)
		panicCard := card(models.Panic, models.Hearts, models.Jack)
		give(a, panicCard)
		give(b, loot)
		b.AddToBoard(card(models.Scope, models.Spades, models.Ace))
		si.players = []uuid.UUID{b.ID}
		si.cards = []uuid.UUID{loot.ID}

		out, err := m.PlayCard(ctx, panicCard.ID)
		require.NoError(t, err)
		assert.Equal(t, Ok, out)
		assert.NotNil(t, a.HandCard(loot.ID))
		assert.Empty(t, b.Hand)
		assert.Equal(t, 1, si.lastUnknown, "hand cards are face-down")
		assert.Same(t, panicCard, m.TopDiscard())
	})

	t.Run("too far", func(t *testing.T) {
		m, si, _ := newTable(t, classicRoles...)
		a, c := seat(m, 0), seat(m, 2)
		panicCard := card(models.Panic, models.Hearts, models.Jack)
		give(a, panicCard)
		give(c, card(models.Beer, models.Hearts, models.Nine))
		a.Weapon = card(models.Winchester, models.Spades, models.Eight)
		si.players = []uuid.UUID{c.ID}

		out, err := m.PlayCard(ctx, panicCard.ID)
		require.NoError(t, err)
		assert.Equal(t, TooFar, out, "weapons do not extend Panic")
		assert.Len(t, c.Hand, 1)
	})

	t.Run("target has nothing", func(t *testing.T) {
		m, si, _ := newTable(t, classicRoles...)
		a, b := seat(m, 0), seat(m, 1)
		panicCard := card(models.Panic, models.Hearts, models.Jack)
		give(a, panicCard)
		si.players = []uuid.UUID{b.ID}

		out, err := m.PlayCard(ctx, panicCard.ID)
		require.NoError(t, err)
		assert.Equal(t, CantPlay, out)
		assert.Equal(t, 0, si.cardCalls)
	})
}

func TestCatBalouIgnoresDistance(t *testing.T) {
	m, si, _ := newTable(t, classicRoles...)
	a, c := seat(m, 0), seat(m, 2)
	cat := card(models.CatBalou, models.Diamonds, models.King)
	barrel := card(models.Barrel, models.Spades, models.Queen)
	give(a, cat)
	c.AddToBoard(barrel)
	si.players = []uuid.UUID{c.ID}
	si.cards = []uuid.UUID{barrel.ID}

	out, err := m.PlayCard(context.Background(), cat.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Empty(t, c.Board)
	assert.Equal(t, 0, si.lastUnknown)
	pile := m.state.Deck.DiscardPile()
	require.Len(t, pile, 2)
	assert.Same(t, barrel, pile[0])
	assert.Same(t, cat, pile[1])
}

func TestIndians(t *testing.T) {
	m, si, _ := newTable(t, classicRoles...)
	a, b, c, d := seat(m, 0), seat(m, 1), seat(m, 2), seat(m, 3)
	indians := card(models.Indians, models.Diamonds, models.King)
	give(a, indians)
	give(b, card(models.Bang, models.Clubs, models.Two))
	give(d, card(models.Bang, models.Clubs, models.Three))
	si.confirms[b.ID] = true

	out, err := m.PlayCard(context.Background(), indians.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, 4, b.Health)
	assert.Empty(t, b.Hand)
	assert.Equal(t, 3, c.Health)
	assert.Equal(t, 3, d.Health, "declined the discard")
	assert.Len(t, d.Hand, 1)
	assert.Equal(t, 5, a.Health)
	assert.Equal(t, 2, si.confirmCalls, "only players holding a Bang are asked")
}

func TestIndiansKillPaysBounty(t *testing.T) {
	m, _, _ := newTable(t, classicRoles...)
	a, b := seat(m, 0), seat(m, 1)
	b.Health = 1
	indians := card(models.Indians, models.Diamonds, models.King)
	give(a, indians)

	out, err := m.PlayCard(context.Background(), indians.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.True(t, b.Dead)
	assert.Len(t, a.Hand, 3)
}

func TestGatlingShootsEveryone(t *testing.T) {
	m, si, _ := newTable(t, classicRoles...)
	a := seat(m, 0)
	gatling := card(models.Gatling, models.Hearts, models.Ten)
	give(a, gatling)
	give(seat(m, 2), card(models.Missed, models.Clubs, models.Five))
	si.confirms[seat(m, 2).ID] = true

	out, err := m.PlayCard(context.Background(), gatling.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, 3, seat(m, 1).Health)
	assert.Equal(t, 4, seat(m, 2).Health)
	assert.Equal(t, 3, seat(m, 3).Health)
	assert.Equal(t, 5, a.Health)
	assert.False(t, a.BangPlayed, "Gatling is not a Bang")
}

func TestSaloon(t *testing.T) {
	m, _, _ := newTable(t, classicRoles...)
	a, b, c, d := seat(m, 0), seat(m, 1), seat(m, 2), seat(m, 3)
	a.Health, b.Health = 2, 2
	d.Health, d.Dead = 0, true
	saloon := card(models.Saloon, models.Hearts, models.Five)
	give(a, saloon)

	out, err := m.PlayCard(context.Background(), saloon.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, 4, a.Health)
	assert.Equal(t, 3, b.Health)
	assert.Equal(t, 4, c.Health, "capped at max")
	assert.Equal(t, 0, d.Health, "the dead do not drink")
}

func TestDuel(t *testing.T) {
	t.Run("challenger runs out first", func(t *testing.T) {
		m, si, _ := newTable(t, classicRoles...)
		a, b := seat(m, 0), seat(m, 1)
		duel := card(models.Duel, models.Clubs, models.Queen)
		give(a, duel)
		give(b, card(models.Bang, models.Clubs, models.Two))
		si.players = []uuid.UUID{b.ID}

		out, err := m.PlayCard(context.Background(), duel.ID)
		require.NoError(t, err)
		assert.Equal(t, Ok, out)
		assert.Equal(t, 4, a.Health)
		assert.Equal(t, 4, b.Health)
		assert.Empty(t, b.Hand)
	})

	t.Run("target without a Bang", func(t *testing.T) {
		m, si, _ := newTable(t, classicRoles...)
		a, c := seat(m, 0), seat(m, 2)
		duel := card(models.Duel, models.Clubs, models.Queen)
		give(a, duel, card(models.Bang, models.Clubs, models.Two))
		si.players = []uuid.UUID{c.ID}

		_, err := m.PlayCard(context.Background(), duel.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Health)
		assert.Len(t, a.Hand, 1, "challenger keeps the Bang")
	})
}

func TestDrawCards(t *testing.T) {
	for name, tc := range map[models.CardName]int{models.Stagecoach: 2, models.WellsFargo: 3} {
		t.Run(name.String(), func(t *testing.T) {
			m, _, _ := newTable(t, classicRoles...)
			a := seat(m, 0)
			c := card(name, models.Hearts, models.Nine)
			give(a, c)

			out, err := m.PlayCard(context.Background(), c.ID)
			require.NoError(t, err)
			assert.Equal(t, Ok, out)
			assert.Len(t, a.Hand, tc)
			assert.Same(t, c, m.TopDiscard())
		})
	}
}

func TestGeneralStore(t *testing.T) {
	m, si, _ := newTable(t, classicRoles...)
	a, b, c, d := seat(m, 0), seat(m, 1), seat(m, 2), seat(m, 3)
	store := card(models.GeneralStore, models.Clubs, models.Nine)
	give(a, store)
	p1 := card(models.Beer, models.Hearts, models.Six)
	p2 := card(models.Bang, models.Hearts, models.Seven)
	p3 := card(models.Missed, models.Hearts, models.Eight)
	p4 := card(models.Panic, models.Hearts, models.Nine)
	stack(m, p1, p2, p3, p4)
	// b first answers with a card a already took and is asked again
	si.cards = []uuid.UUID{p3.ID, p3.ID, p1.ID, p4.ID}

	out, err := m.PlayCard(context.Background(), store.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, []*models.Card{p3}, a.Hand)
	assert.Equal(t, []*models.Card{p1}, b.Hand)
	assert.Equal(t, []*models.Card{p4}, c.Hand)
	assert.Equal(t, []*models.Card{p2}, d.Hand, "last card is handed over without asking")
	assert.Equal(t, 4, si.cardCalls)
}

func TestGeneralStoreGivesUp(t *testing.T) {
	m, si, mb := newTable(t, classicRoles...)
	a := seat(m, 0)
	store := card(models.GeneralStore, models.Clubs, models.Nine)
	give(a, store)
	p1 := card(models.Beer, models.Hearts, models.Six)
	p2 := card(models.Bang, models.Hearts, models.Seven)
	p3 := card(models.Missed, models.Hearts, models.Eight)
	p4 := card(models.Panic, models.Hearts, models.Nine)
	stack(m, p1, p2, p3, p4)
	si.cards = []uuid.UUID{uuid.Nil, uuid.Nil, uuid.Nil, uuid.Nil}
	before := censusOf(t, m)

	_, err := m.PlayCard(context.Background(), store.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1+m.rules.MaxPromptRetries, si.cardCalls)
	assert.NotNil(t, a.HandCard(store.ID))
	assert.Len(t, mb.ofType(EventCardReturned), 4)
	for _, want := range []*models.Card{p1, p2, p3, p4} {
		got, err := m.state.Deck.Draw()
		require.NoError(t, err)
		assert.Same(t, want, got)
	}
	m.state.Deck.ReturnToTop([]*models.Card{p1, p2, p3, p4})
	assert.Equal(t, before, censusOf(t, m))
}

func TestEquipmentOncePerName(t *testing.T) {
	ctx := context.Background()
	m, _, mb := newTable(t, classicRoles...)
	a := seat(m, 0)
	mustang := card(models.Mustang, models.Hearts, models.Eight)
	second := card(models.Mustang, models.Hearts, models.Nine)
	give(a, mustang, second)

	out, err := m.PlayCard(ctx, mustang.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Equal(t, []*models.Card{mustang}, a.Board)
	assert.Nil(t, m.TopDiscard(), "equipment is not discarded")
	assert.Len(t, mb.ofType(EventCardToBoard), 1)

	out, err = m.PlayCard(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, CantPlay, out)
	assert.NotNil(t, a.HandCard(second.ID))
}

func TestJail(t *testing.T) {
	ctx := context.Background()
	m, si, _ := newTable(t, classicRoles...)
	a, b, c := seat(m, 0), seat(m, 1), seat(m, 2)
	m.state.CurrentID = b.ID
	jail := card(models.Jail, models.Spades, models.Ten)
	give(b, jail)

	si.players = []uuid.UUID{a.ID}
	out, err := m.PlayCard(ctx, jail.ID)
	require.NoError(t, err)
	assert.Equal(t, CantPlay, out, "the Sheriff cannot be jailed")

	si.players = []uuid.UUID{c.ID}
	out, err = m.PlayCard(ctx, jail.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Same(t, jail, c.OnBoard(models.Jail))
	assert.Empty(t, b.Hand)

	again := card(models.Jail, models.Hearts, models.Four)
	give(b, again)
	si.players = []uuid.UUID{c.ID}
	out, err = m.PlayCard(ctx, again.ID)
	require.NoError(t, err)
	assert.Equal(t, CantPlay, out)
}

func TestWeaponReplacesOld(t *testing.T) {
	m, _, _ := newTable(t, classicRoles...)
	a := seat(m, 0)
	old := card(models.Schofield, models.Clubs, models.King)
	a.Weapon = old
	rifle := card(models.Winchester, models.Spades, models.Eight)
	give(a, rifle)

	out, err := m.PlayCard(context.Background(), rifle.ID)
	require.NoError(t, err)
	assert.Equal(t, Ok, out)
	assert.Same(t, rifle, a.Weapon)
	assert.Same(t, old, m.TopDiscard())
	assert.Equal(t, 5, a.Range())
}

func TestDistance(t *testing.T) {
	m, _, _ := newTable(t, classicRoles...)
	a, b, c := seat(m, 0), seat(m, 1), seat(m, 2)

	dist := func(x, y *models.Player) int {
		d, err := m.Distance(x.ID, y.ID)
		require.NoError(t, err)
		return d
	}
	assert.Equal(t, 1, dist(a, b))
	assert.Equal(t, 2, dist(a, c))

	c.AddToBoard(card(models.Mustang, models.Hearts, models.Eight))
	assert.Equal(t, 3, dist(a, c))
	a.AddToBoard(card(models.Scope, models.Spades, models.Ace))
	assert.Equal(t, 2, dist(a, c))
	assert.Equal(t, 1, dist(a, b), "never below one")

	b.Dead = true
	assert.Equal(t, 1, dist(a, c), "dead seats are skipped")

	_, err := m.Distance(a.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidTargetIsRejected(t *testing.T) {
	m, si, _ := newTable(t, classicRoles...)
	a := seat(m, 0)
	bang := card(models.Bang, models.Spades, models.Ace)
	give(a, bang)
	si.players = []uuid.UUID{a.ID, uuid.Nil, uuid.New(), uuid.New()}

	_, err := m.PlayCard(context.Background(), bang.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 4, si.playerCalls)
	assert.NotNil(t, a.HandCard(bang.ID))
	assert.False(t, a.BangPlayed)
}
