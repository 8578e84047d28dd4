// internal/game/snapshot.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/models"
)

// SnapshotCard is a card without its id; ids are regenerated on restore.
type SnapshotCard struct {
	Name models.CardName `json:"name"`
	Suit models.Suit     `json:"suit"`
	Rank models.Rank     `json:"rank"`
}

type SnapshotPlayer struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Role         models.Role    `json:"role"`
	Health       int            `json:"health"`
	MaxHealth    int            `json:"maxHealth"`
	Hand         []SnapshotCard `json:"hand"`
	Board        []SnapshotCard `json:"board"`
	Weapon       *SnapshotCard  `json:"weapon,omitempty"`
	BangPlayed   bool           `json:"bangPlayed"`
	DeadThisTurn bool           `json:"deadThisTurn"`
	Dead         bool           `json:"dead"`
}

// GameSnapshot is the persisted form of a game. Piles are stored bottom first.
type GameSnapshot struct {
	GameID      uuid.UUID        `json:"gameId"`
	Players     []SnapshotPlayer `json:"players"`
	DrawPile    []SnapshotCard   `json:"drawPile"`
	DiscardPile []SnapshotCard   `json:"discardPile"`
	CurrentID   uuid.UUID        `json:"currentId"`
	Rules       HouseRules       `json:"rules"`
}

func snapCards(cards []*models.Card) []SnapshotCard {
	out := make([]SnapshotCard, len(cards))
	for i, c := range cards {
		out[i] = SnapshotCard{Name: c.Name, Suit: c.Suit, Rank: c.Rank}
	}
	return out
}

func unsnapCards(cards []SnapshotCard) []*models.Card {
	out := make([]*models.Card, len(cards))
	for i, c := range cards {
		out[i] = models.NewCard(c.Name, c.Suit, c.Rank)
	}
	return out
}

func takeSnapshot(s *GameState) *GameSnapshot {
	snap := &GameSnapshot{
		GameID:      s.ID,
		DrawPile:    snapCards(s.Deck.DrawPile()),
		DiscardPile: snapCards(s.Deck.DiscardPile()),
		CurrentID:   s.CurrentID,
		Rules:       s.Rules,
	}
	for _, p := range s.Players {
		sp := SnapshotPlayer{
			ID:           p.ID,
			Name:         p.Name,
			Role:         p.Role,
			Health:       p.Health,
			MaxHealth:    p.MaxHealth,
			Hand:         snapCards(p.Hand),
			Board:        snapCards(p.Board),
			BangPlayed:   p.BangPlayed,
			DeadThisTurn: p.DeadThisTurn,
			Dead:         p.Dead,
		}
		if p.Weapon != nil {
			w := snapCards([]*models.Card{p.Weapon})[0]
			sp.Weapon = &w
		}
		snap.Players = append(snap.Players, sp)
	}
	return snap
}

// restore builds a table from snap. The saved rules win over the manager's.
func (m *GameManager) restore(snap *GameSnapshot) (*GameState, error) {
	if len(snap.Players) < MinPlayers || len(snap.Players) > MaxPlayers {
		return nil, &PlayerCountError{Got: len(snap.Players)}
	}
	id := snap.GameID
	if id == uuid.Nil {
		id = uuid.New()
	}
	s := m.newState(id, restoreDeck(unsnapCards(snap.DrawPile), unsnapCards(snap.DiscardPile), m.rng))
	if snap.Rules != (HouseRules{}) {
		s.Rules = snap.Rules
	}
	seen := make(map[uuid.UUID]bool, len(snap.Players))
	for _, sp := range snap.Players {
		if seen[sp.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIDs, sp.ID)
		}
		seen[sp.ID] = true
		p := models.NewPlayer(sp.ID, sp.Name, sp.Role, sp.MaxHealth)
		p.Health = sp.Health
		p.Hand = unsnapCards(sp.Hand)
		p.Board = unsnapCards(sp.Board)
		if sp.Weapon != nil {
			p.Weapon = unsnapCards([]SnapshotCard{*sp.Weapon})[0]
		}
		p.BangPlayed = sp.BangPlayed
		p.DeadThisTurn = sp.DeadThisTurn
		p.Dead = sp.Dead
		s.Players = append(s.Players, p)
	}
	if !seen[snap.CurrentID] {
		return nil, fmt.Errorf("current player %s: %w", snap.CurrentID, ErrNotFound)
	}
	s.CurrentID = snap.CurrentID
	return s, nil
}
