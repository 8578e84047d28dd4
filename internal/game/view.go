// internal/game/view.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/models"
)

// ViewCard is a card as one player sees it. Face-down cards carry only their id.
type ViewCard struct {
	ID    uuid.UUID `json:"id"`
	Known bool      `json:"known"`
	Name  string    `json:"name,omitempty"`
	Suit  string    `json:"suit,omitempty"`
	Rank  string    `json:"rank,omitempty"`
}

// ViewPlayer is one seat from the perspective of the requesting player. Role is empty
// while it is still secret.
type ViewPlayer struct {
	PlayerID      uuid.UUID  `json:"playerId"`
	Name          string     `json:"name"`
	Role          string     `json:"role,omitempty"`
	Health        int        `json:"health"`
	MaxHealth     int        `json:"maxHealth"`
	Dead          bool       `json:"dead"`
	HandSize      int        `json:"handSize"`
	Hand          []ViewCard `json:"hand,omitempty"` // only for the requesting player
	Board         []ViewCard `json:"board"`
	Weapon        *ViewCard  `json:"weapon,omitempty"`
	IsCurrentTurn bool       `json:"isCurrentTurn"`
}

// TableView is returned by ViewFor.
type TableView struct {
	GameID          uuid.UUID    `json:"gameId"`
	GameOver        bool         `json:"gameOver"`
	Winner          string       `json:"winner,omitempty"`
	CurrentPlayerID uuid.UUID    `json:"currentPlayerId"`
	DrawPileSize    int          `json:"drawPileSize"`
	DiscardSize     int          `json:"discardSize"`
	DiscardTop      *ViewCard    `json:"discardTop,omitempty"`
	Players         []ViewPlayer `json:"players"`
}

func knownCard(c *models.Card) ViewCard {
	return ViewCard{ID: c.ID, Known: true, Name: c.Name.String(), Suit: c.Suit.String(), Rank: c.Rank.String()}
}

// ViewFor builds the table as forUser sees it: their own hand and role, the Sheriff's
// role, the roles of the dead and everything in play. Once the game is over every
// role is shown. uuid.Nil gives a spectator's view.
func (m *GameManager) ViewFor(forUser uuid.UUID) (TableView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return TableView{}, ErrNotStarted
	}
	s := m.state

	view := TableView{
		GameID:          s.ID,
		GameOver:        m.winner.Terminal(),
		CurrentPlayerID: s.CurrentID,
		DrawPileSize:    s.Deck.DrawLen(),
		DiscardSize:     s.Deck.DiscardLen(),
	}
	if view.GameOver {
		view.Winner = m.winner.String()
	}
	if top := s.Deck.TopDiscard(); top != nil {
		c := knownCard(top)
		view.DiscardTop = &c
	}

	for _, pl := range s.Players {
		vp := ViewPlayer{
			PlayerID:      pl.ID,
			Name:          pl.Name,
			Health:        pl.Health,
			MaxHealth:     pl.MaxHealth,
			Dead:          pl.Dead,
			HandSize:      len(pl.Hand),
			Board:         make([]ViewCard, 0, len(pl.Board)),
			IsCurrentTurn: pl.ID == s.CurrentID,
		}
		if pl.ID == forUser || pl.Role == models.Sheriff || pl.Dead || view.GameOver {
			vp.Role = pl.Role.String()
		}
		if pl.ID == forUser {
			vp.Hand = make([]ViewCard, len(pl.Hand))
			for j, c := range pl.Hand {
				vp.Hand[j] = knownCard(c)
			}
		}
		for _, c := range pl.Board {
			vp.Board = append(vp.Board, knownCard(c))
		}
		if pl.Weapon != nil {
			w := knownCard(pl.Weapon)
			vp.Weapon = &w
		}
		view.Players = append(view.Players, vp)
	}
	return view, nil
}
