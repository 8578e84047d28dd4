// Package catalog provides the card sets a game is dealt from.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jason-s-yu/bang/internal/models"
)

var (
	// ErrSourceUnavailable is wrapped by every provider when its backing store cannot be read.
	ErrSourceUnavailable = errors.New("card source unavailable")

	// ErrEmpty is returned when a source yields no cards at all.
	ErrEmpty = errors.New("card source is empty")
)

type entry struct {
	name  models.CardName
	suit  models.Suit
	ranks []models.Rank
}

func ranks(lo, hi models.Rank) []models.Rank {
	var out []models.Rank
	for r := lo; r <= hi; r++ {
		out = append(out, r)
	}
	return out
}

func one(r ...models.Rank) []models.Rank { return r }

const (
	spades   = models.Spades
	hearts   = models.Hearts
	diamonds = models.Diamonds
	clubs    = models.Clubs
)

// classicDeck is the 80-card base game.
var classicDeck = []entry{
	{models.Bang, spades, one(models.Ace)},
	{models.Bang, hearts, one(models.Queen, models.King, models.Ace)},
	{models.Bang, diamonds, ranks(models.Two, models.Ace)},
	{models.Bang, clubs, ranks(models.Two, models.Nine)},
	{models.Missed, clubs, ranks(models.Ten, models.Ace)},
	{models.Missed, spades, ranks(models.Two, models.Eight)},
	{models.Beer, hearts, ranks(models.Six, models.Jack)},
	{models.Panic, hearts, one(models.Jack, models.Queen, models.Ace)},
	{models.Panic, diamonds, one(models.Eight)},
	{models.CatBalou, hearts, one(models.King)},
	{models.CatBalou, diamonds, one(models.Nine, models.Ten, models.Jack)},
	{models.Stagecoach, spades, one(models.Nine, models.Nine)},
	{models.WellsFargo, hearts, one(models.Three)},
	{models.GeneralStore, clubs, one(models.Nine)},
	{models.GeneralStore, spades, one(models.Queen)},
	{models.Gatling, hearts, one(models.Ten)},
	{models.Duel, diamonds, one(models.Queen)},
	{models.Duel, spades, one(models.Jack)},
	{models.Duel, clubs, one(models.Eight)},
	{models.Indians, diamonds, one(models.King, models.Ace)},
	{models.Saloon, hearts, one(models.Five)},
	{models.Barrel, spades, one(models.Queen, models.King)},
	{models.Scope, spades, one(models.Ace)},
	{models.Mustang, hearts, one(models.Eight, models.Nine)},
	{models.Dynamite, hearts, one(models.Two)},
	{models.Jail, spades, one(models.Ten, models.Jack)},
	{models.Jail, hearts, one(models.Four)},
	{models.Volcanic, spades, one(models.Ten)},
	{models.Volcanic, clubs, one(models.Ten)},
	{models.Schofield, clubs, one(models.Jack, models.Queen)},
	{models.Schofield, spades, one(models.King)},
	{models.Remington, clubs, one(models.King)},
	{models.Carabine, clubs, one(models.Ace)},
	{models.Winchester, spades, one(models.Eight)},
}

// Classic returns a fresh copy of the 80-card base game.
func Classic() []*models.Card {
	var cards []*models.Card
	for _, e := range classicDeck {
		for _, r := range e.ranks {
			cards = append(cards, models.NewCard(e.name, e.suit, r))
		}
	}
	return cards
}

// Builtin serves the classic deck from memory.
type Builtin struct{}

func (Builtin) GetAll(context.Context) ([]*models.Card, error) {
	return Classic(), nil
}

// Census counts the cards of each name.
func Census(cards []*models.Card) map[models.CardName]int {
	out := make(map[models.CardName]int)
	for _, c := range cards {
		out[c.Name]++
	}
	return out
}

// Check reports problems that would make a card set unplayable: too few cards to deal
// seven players, or no Bang at all.
func Check(cards []*models.Card) []string {
	var problems []string
	// Sheriff 5+2, six others at 4
	const minCards = 7 + 6*4
	if len(cards) < minCards {
		problems = append(problems, fmt.Sprintf("only %d cards, need at least %d to deal a full table", len(cards), minCards))
	}
	if Census(cards)[models.Bang] == 0 {
		problems = append(problems, "no bang cards")
	}
	return problems
}
