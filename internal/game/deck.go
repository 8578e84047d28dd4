// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/jason-s-yu/bang/internal/models"
)

// Deck is the shared draw pile plus the discard pile. The top of either pile is the
// last element of its slice.
type Deck struct {
	draw    []*models.Card
	discard []*models.Card
	rng     *rand.Rand
}

// NewDeck shuffles cards into a fresh draw pile.
func NewDeck(cards []*models.Card, rng *rand.Rand) *Deck {
	d := &Deck{
		draw:    append([]*models.Card(nil), cards...),
		discard: []*models.Card{},
		rng:     rng,
	}
	d.shuffle(d.draw)
	return d
}

// restoreDeck rebuilds a deck with both piles in the given order, without shuffling.
func restoreDeck(draw, discard []*models.Card, rng *rand.Rand) *Deck {
	return &Deck{
		draw:    append([]*models.Card{}, draw...),
		discard: append([]*models.Card{}, discard...),
		rng:     rng,
	}
}

func (d *Deck) shuffle(cards []*models.Card) {
	d.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// NeedsReshuffle reports whether the next Draw will recycle the discard pile.
func (d *Deck) NeedsReshuffle() bool {
	return len(d.draw) == 0 && len(d.discard) > 0
}

// Draw pops the top of the draw pile. An empty draw pile is refilled by shuffling the
// whole discard pile into it first.
func (d *Deck) Draw() (*models.Card, error) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return nil, ErrDeckExhausted
		}
		d.draw, d.discard = d.discard, []*models.Card{}
		d.shuffle(d.draw)
	}
	top := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return top, nil
}

func (d *Deck) Discard(c *models.Card) {
	d.discard = append(d.discard, c)
}

// TopDiscard is the most recently discarded card, or nil.
func (d *Deck) TopDiscard() *models.Card {
	if len(d.discard) == 0 {
		return nil
	}
	return d.discard[len(d.discard)-1]
}

// ReturnToTop puts cards back on the draw pile so that cards[0] is drawn first.
func (d *Deck) ReturnToTop(cards []*models.Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		d.draw = append(d.draw, cards[i])
	}
}

// DrawPile copies the draw pile, bottom first.
func (d *Deck) DrawPile() []*models.Card {
	return append([]*models.Card{}, d.draw...)
}

// DiscardPile copies the discard pile, oldest first.
func (d *Deck) DiscardPile() []*models.Card {
	return append([]*models.Card{}, d.discard...)
}

func (d *Deck) DrawLen() int    { return len(d.draw) }
func (d *Deck) DiscardLen() int { return len(d.discard) }
