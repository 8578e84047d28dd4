// internal/models/card.go
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrUnknownTag is returned when a suit, rank, card name or role string does not name a known value.
var ErrUnknownTag = errors.New("unknown tag")

// Suit is one of the four French suits.
type Suit int

const (
	Diamonds Suit = iota
	Hearts
	Spades
	Clubs
)

var suitNames = map[Suit]string{
	Diamonds: "diamonds",
	Hearts:   "hearts",
	Spades:   "spades",
	Clubs:    "clubs",
}

func (s Suit) String() string                { return tagString(suitNames, s, "suit") }
func (s Suit) MarshalText() ([]byte, error)  { return tagMarshal(suitNames, s, "suit") }
func (s *Suit) UnmarshalText(b []byte) error { return tagUnmarshal(suitNames, s, "suit", b) }

// Rank runs from Two up to Ace; ordering matters for the Dynamite and Beer Barrel checks.
type Rank int

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankNames = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

func (r Rank) String() string                { return tagString(rankNames, r, "rank") }
func (r Rank) MarshalText() ([]byte, error)  { return tagMarshal(rankNames, r, "rank") }
func (r *Rank) UnmarshalText(b []byte) error { return tagUnmarshal(rankNames, r, "rank", b) }

// Between reports whether r lies in the inclusive range [lo, hi].
func (r Rank) Between(lo, hi Rank) bool {
	return r >= lo && r <= hi
}

// CardName identifies one of the 23 card behaviors.
type CardName int

const (
	Bang CardName = iota
	Beer
	Missed
	Panic
	GeneralStore
	Indians
	Duel
	Gatling
	CatBalou
	Saloon
	Stagecoach
	WellsFargo
	Barrel
	Scope
	Mustang
	Dynamite
	BeerBarrel
	Jail
	Volcanic
	Schofield
	Remington
	Carabine
	Winchester
)

var cardNames = map[CardName]string{
	Bang:         "bang",
	Beer:         "beer",
	Missed:       "missed",
	Panic:        "panic",
	GeneralStore: "general_store",
	Indians:      "indians",
	Duel:         "duel",
	Gatling:      "gatling",
	CatBalou:     "cat_balou",
	Saloon:       "saloon",
	Stagecoach:   "stagecoach",
	WellsFargo:   "wells_fargo",
	Barrel:       "barrel",
	Scope:        "scope",
	Mustang:      "mustang",
	Dynamite:     "dynamite",
	BeerBarrel:   "beer_barrel",
	Jail:         "jail",
	Volcanic:     "volcanic",
	Schofield:    "schofield",
	Remington:    "remington",
	Carabine:     "carabine",
	Winchester:   "winchester",
}

func (n CardName) String() string                { return tagString(cardNames, n, "card") }
func (n CardName) MarshalText() ([]byte, error)  { return tagMarshal(cardNames, n, "card name") }
func (n *CardName) UnmarshalText(b []byte) error { return tagUnmarshal(cardNames, n, "card name", b) }

// AllCardNames lists every card name in declaration order.
func AllCardNames() []CardName {
	names := make([]CardName, 0, len(cardNames))
	for n := Bang; n <= Winchester; n++ {
		names = append(names, n)
	}
	return names
}

// Category is the broad kind of a card, derived from its name.
type Category int

const (
	Instant Category = iota
	Equipment
	Weapon
)

var categoryNames = map[Category]string{
	Instant:   "instant",
	Equipment: "equipment",
	Weapon:    "weapon",
}

func (c Category) String() string { return tagString(categoryNames, c, "category") }

// Category returns Instant, Equipment or Weapon for the name.
func (n CardName) Category() Category {
	switch {
	case n >= Volcanic && n <= Winchester:
		return Weapon
	case n >= Barrel && n <= Jail:
		return Equipment
	default:
		return Instant
	}
}

var weaponRanges = map[CardName]int{
	Volcanic:   1,
	Schofield:  2,
	Remington:  3,
	Carabine:   4,
	Winchester: 5,
}

// Card is a single physical card. Its ID is unique for the card's lifetime and is
// what interaction providers answer with.
type Card struct {
	ID   uuid.UUID `json:"id"`
	Name CardName  `json:"name"`
	Suit Suit      `json:"suit"`
	Rank Rank      `json:"rank"`
}

// NewCard creates a card with a fresh random ID.
func NewCard(name CardName, suit Suit, rank Rank) *Card {
	return &Card{ID: uuid.New(), Name: name, Suit: suit, Rank: rank}
}

// Category returns the card's category.
func (c *Card) Category() Category {
	return c.Name.Category()
}

// Range is the firing range of a weapon card, 0 for anything else.
func (c *Card) Range() int {
	return weaponRanges[c.Name]
}

func (c *Card) String() string {
	return fmt.Sprintf("%s %s of %s", c.Name, c.Rank, c.Suit)
}

// ParseSuit, ParseRank, ParseCardName and ParseRole accept the names produced by String.

func ParseSuit(s string) (Suit, error) {
	var v Suit
	err := v.UnmarshalText([]byte(s))
	return v, err
}

func ParseRank(s string) (Rank, error) {
	var v Rank
	err := v.UnmarshalText([]byte(s))
	return v, err
}

func ParseCardName(s string) (CardName, error) {
	var v CardName
	err := v.UnmarshalText([]byte(s))
	return v, err
}

func tagString[T ~int](names map[T]string, v T, kind string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", kind, int(v))
}

func tagMarshal[T ~int](names map[T]string, v T, kind string) ([]byte, error) {
	name, ok := names[v]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", kind, int(v), ErrUnknownTag)
	}
	return []byte(name), nil
}

func tagUnmarshal[T ~int](names map[T]string, dst *T, kind string, b []byte) error {
	want := strings.ToLower(strings.TrimSpace(string(b)))
	for v, name := range names {
		if strings.ToLower(name) == want {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("%s %q: %w", kind, string(b), ErrUnknownTag)
}
