// internal/game/events.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/models"
)

// GameEventType is an enum-like type for the one-way notifications a game emits.
type GameEventType string

const (
	EventTurnStart      GameEventType = "turn_start"
	EventCardToHand     GameEventType = "card_to_hand"
	EventCardToBoard    GameEventType = "card_to_board"
	EventWeaponEquipped GameEventType = "weapon_equipped"
	EventCardDiscarded  GameEventType = "card_discarded"
	EventCardReturned   GameEventType = "card_returned"   // put back on top of the draw pile
	EventCardResult     GameEventType = "card_result"     // narration of a resolved card or check
	EventDeckReshuffled GameEventType = "deck_reshuffled" // discard pile recycled into the draw pile
	EventHealthChanged  GameEventType = "health_changed"
	EventPlayerDied     GameEventType = "player_died"
	EventGameOver       GameEventType = "game_over"
)

// EventUser identifies a player inside an event.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// EventCard identifies a card inside an event.
type EventCard struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Suit string    `json:"suit"`
	Rank string    `json:"rank"`
}

// GameEvent is one notification. Seq increases by one per event within a game.
type GameEvent struct {
	Type   GameEventType `json:"type"`
	GameID uuid.UUID     `json:"gameId"`
	Seq    int           `json:"seq"`
	User   *EventUser    `json:"user,omitempty"`
	Target *EventUser    `json:"target,omitempty"`
	Card   *EventCard    `json:"card,omitempty"`

	Payload map[string]interface{} `json:"payload,omitempty"`
}

func eventUser(p *models.Player) *EventUser {
	if p == nil {
		return nil
	}
	return &EventUser{ID: p.ID, Name: p.Name}
}

func eventCard(c *models.Card) *EventCard {
	if c == nil {
		return nil
	}
	return &EventCard{ID: c.ID, Name: c.Name.String(), Suit: c.Suit.String(), Rank: c.Rank.String()}
}
