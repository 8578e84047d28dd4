package models

import (
	"github.com/google/uuid"
)

// Role is a player's hidden (except for the Sheriff) allegiance.
type Role int

const (
	DeputySheriff Role = iota
	Outlaw
	Renegade
	Sheriff
)

var roleNames = map[Role]string{
	DeputySheriff: "deputy_sheriff",
	Outlaw:        "outlaw",
	Renegade:      "renegade",
	Sheriff:       "sheriff",
}

func (r Role) String() string                { return tagString(roleNames, r, "role") }
func (r Role) MarshalText() ([]byte, error)  { return tagMarshal(roleNames, r, "role") }
func (r *Role) UnmarshalText(b []byte) error { return tagUnmarshal(roleNames, r, "role", b) }

func ParseRole(s string) (Role, error) {
	var v Role
	err := v.UnmarshalText([]byte(s))
	return v, err
}

// Player holds one seat's cards and life. Players are never removed from a game;
// death is a flag.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Health    int       `json:"health"`
	MaxHealth int       `json:"maxHealth"`

	Hand   []*Card `json:"hand"`
	Board  []*Card `json:"board"`
	Weapon *Card   `json:"weapon,omitempty"`

	// BangPlayed is set once a Bang resolves and cleared when the turn ends.
	BangPlayed bool `json:"bangPlayed"`
	// DeadThisTurn marks a death that the engine has not cleaned up yet.
	DeadThisTurn bool `json:"deadThisTurn"`
	Dead         bool `json:"dead"`
}

// NewPlayer returns a player at full health with empty card containers.
func NewPlayer(id uuid.UUID, name string, role Role, maxHealth int) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Role:      role,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		Hand:      []*Card{},
		Board:     []*Card{},
	}
}

func (p *Player) IsDead() bool {
	return p.Dead
}

// Range is the firing range granted by the equipped weapon (1 bare-handed).
func (p *Player) Range() int {
	if p.Weapon == nil {
		return 1
	}
	return p.Weapon.Range()
}

// UnlimitedBang reports whether the equipped weapon lifts the one-Bang-per-turn limit.
func (p *Player) UnlimitedBang() bool {
	return p.Weapon != nil && p.Weapon.Name == Volcanic
}

// CardCount counts hand, board and weapon together.
func (p *Player) CardCount() int {
	n := len(p.Hand) + len(p.Board)
	if p.Weapon != nil {
		n++
	}
	return n
}

// HandCard finds a card in hand by id.
func (p *Player) HandCard(id uuid.UUID) *Card {
	for _, c := range p.Hand {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FirstInHand returns the first hand card with the given name, or nil.
func (p *Player) FirstInHand(name CardName) *Card {
	for _, c := range p.Hand {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// CountInHand counts hand cards with the given name.
func (p *Player) CountInHand(name CardName) int {
	n := 0
	for _, c := range p.Hand {
		if c.Name == name {
			n++
		}
	}
	return n
}

// OnBoard returns the board card with the given name, or nil.
func (p *Player) OnBoard(name CardName) *Card {
	for _, c := range p.Board {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (p *Player) AddToHand(c *Card) {
	p.Hand = append(p.Hand, c)
}

func (p *Player) AddToBoard(c *Card) {
	p.Board = append(p.Board, c)
}

// EquipWeapon swaps in w and returns the weapon it replaced, if any.
func (p *Player) EquipWeapon(w *Card) *Card {
	old := p.Weapon
	p.Weapon = w
	return old
}

// RemoveCard takes the card with the given id out of the hand, the board or the
// weapon slot. It reports false if the player does not hold it.
func (p *Player) RemoveCard(id uuid.UUID) (*Card, bool) {
	if c, ok := removeByID(&p.Hand, id); ok {
		return c, true
	}
	if c, ok := removeByID(&p.Board, id); ok {
		return c, true
	}
	if p.Weapon != nil && p.Weapon.ID == id {
		c := p.Weapon
		p.Weapon = nil
		return c, true
	}
	return nil, false
}

// RemoveAll empties hand, board and weapon slot, in that order.
func (p *Player) RemoveAll() []*Card {
	cards := make([]*Card, 0, p.CardCount())
	cards = append(cards, p.Hand...)
	cards = append(cards, p.Board...)
	if p.Weapon != nil {
		cards = append(cards, p.Weapon)
	}
	p.Hand = []*Card{}
	p.Board = []*Card{}
	p.Weapon = nil
	return cards
}

// Visible lists the cards another player may pick from: hand first, then board,
// then weapon. The first len(p.Hand) entries are face-down to everyone else.
func (p *Player) Visible() []*Card {
	cards := make([]*Card, 0, p.CardCount())
	cards = append(cards, p.Hand...)
	cards = append(cards, p.Board...)
	if p.Weapon != nil {
		cards = append(cards, p.Weapon)
	}
	return cards
}

// Heal restores up to amount health, capped at MaxHealth. Dead players do not heal.
// It returns the health actually gained.
func (p *Player) Heal(amount int) int {
	if p.Dead || amount <= 0 {
		return 0
	}
	before := p.Health
	p.Health += amount
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
	return p.Health - before
}

// ApplyDamage subtracts damage. A player brought to zero or below is revived to
// exactly 1 health by spending Beers from hand, one per missing point, but only when
// revival is allowed and enough Beers are held; otherwise the player dies with health
// left as it fell. Spent Beers are removed from the hand and returned so the caller
// can discard them.
func (p *Player) ApplyDamage(damage int, allowRevival bool) (spent []*Card, alive bool) {
	if p.Dead {
		return nil, false
	}
	p.Health -= damage
	if p.Health > 0 {
		return nil, true
	}
	need := 1 - p.Health
	if allowRevival && p.CountInHand(Beer) >= need {
		for i := 0; i < need; i++ {
			beer := p.FirstInHand(Beer)
			removeByID(&p.Hand, beer.ID)
			spent = append(spent, beer)
		}
		p.Health = 1
		return spent, true
	}
	p.Dead = true
	p.DeadThisTurn = true
	return nil, false
}

func removeByID(cards *[]*Card, id uuid.UUID) (*Card, bool) {
	for i, c := range *cards {
		if c.ID == id {
			*cards = append((*cards)[:i], (*cards)[i+1:]...)
			return c, true
		}
	}
	return nil, false
}
