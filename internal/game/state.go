// internal/game/state.go
package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/models"
	"github.com/sirupsen/logrus"
)

// GameState is the table: every card function receives it and mutates it in place.
// Players keep their seat for the whole game; dead players stay in the slice.
type GameState struct {
	ID        uuid.UUID
	Players   []*models.Player
	Deck      *Deck
	CurrentID uuid.UUID
	Rules     HouseRules

	interactor Interactor
	emitFn     func(GameEvent)
	seq        int
	log        logrus.FieldLogger
	rng        *rand.Rand
}

func (s *GameState) player(id uuid.UUID) *models.Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *GameState) current() *models.Player {
	return s.player(s.CurrentID)
}

func (s *GameState) seatOf(id uuid.UUID) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *GameState) aliveCount() int {
	n := 0
	for _, p := range s.Players {
		if !p.IsDead() {
			n++
		}
	}
	return n
}

// othersAlive lists the living players after from, in seat order, wrapping around.
func (s *GameState) othersAlive(from uuid.UUID) []*models.Player {
	start := s.seatOf(from)
	n := len(s.Players)
	out := make([]*models.Player, 0, n-1)
	for i := 1; i < n; i++ {
		p := s.Players[(start+i)%n]
		if !p.IsDead() {
			out = append(out, p)
		}
	}
	return out
}

// nextAlive returns the first living player seated after from, or nil.
func (s *GameState) nextAlive(from uuid.UUID) *models.Player {
	others := s.othersAlive(from)
	if len(others) == 0 {
		return nil
	}
	return others[0]
}

// distance counts seats between a and b around the living players, taking the shorter
// way, then applies Mustang and Scope. It is never below 1.
func (s *GameState) distance(a, b *models.Player) int {
	ring := make([]uuid.UUID, 0, len(s.Players))
	for _, p := range s.Players {
		if !p.Dead || p.ID == a.ID || p.ID == b.ID {
			ring = append(ring, p.ID)
		}
	}
	ia, ib := -1, -1
	for i, id := range ring {
		if id == a.ID {
			ia = i
		}
		if id == b.ID {
			ib = i
		}
	}
	d := ia - ib
	if d < 0 {
		d = -d
	}
	if other := len(ring) - d; other < d {
		d = other
	}
	if b.OnBoard(models.Mustang) != nil {
		d++
	}
	if a.OnBoard(models.Scope) != nil {
		d--
	}
	if d < 1 {
		d = 1
	}
	return d
}

func (s *GameState) emit(ev GameEvent) {
	s.seq++
	ev.GameID = s.ID
	ev.Seq = s.seq
	if s.emitFn != nil {
		s.emitFn(ev)
	}
}

// narrate reports how a card or a draw check resolved.
func (s *GameState) narrate(actor, target *models.Player, c *models.Card, success bool) {
	s.emit(GameEvent{
		Type:    EventCardResult,
		User:    eventUser(actor),
		Target:  eventUser(target),
		Card:    eventCard(c),
		Payload: map[string]interface{}{"success": success},
	})
}

func (s *GameState) draw() (*models.Card, error) {
	if s.Deck.NeedsReshuffle() {
		s.emit(GameEvent{Type: EventDeckReshuffled, Payload: map[string]interface{}{"cards": s.Deck.DiscardLen()}})
	}
	return s.Deck.Draw()
}

// drawTo deals n cards into p's hand.
func (s *GameState) drawTo(p *models.Player, n int) error {
	for i := 0; i < n; i++ {
		c, err := s.draw()
		if err != nil {
			return err
		}
		s.giveToHand(p, c)
	}
	return nil
}

// drawCheck flips the top card for a Barrel, Dynamite, Beer Barrel or Jail check and
// discards it.
func (s *GameState) drawCheck(p *models.Player) (*models.Card, error) {
	c, err := s.draw()
	if err != nil {
		return nil, err
	}
	s.discard(p, c)
	return c, nil
}

func (s *GameState) giveToHand(p *models.Player, c *models.Card) {
	p.AddToHand(c)
	s.emit(GameEvent{Type: EventCardToHand, User: eventUser(p), Card: eventCard(c)})
}

func (s *GameState) putOnBoard(p *models.Player, c *models.Card) {
	p.AddToBoard(c)
	s.emit(GameEvent{Type: EventCardToBoard, User: eventUser(p), Card: eventCard(c)})
}

func (s *GameState) equip(p *models.Player, c *models.Card) {
	old := p.EquipWeapon(c)
	s.emit(GameEvent{Type: EventWeaponEquipped, User: eventUser(p), Card: eventCard(c)})
	if old != nil {
		s.discard(p, old)
	}
}

// discard puts c on the discard pile. owner is the player it came from, if any; the
// card must already be out of their containers.
func (s *GameState) discard(owner *models.Player, c *models.Card) {
	s.Deck.Discard(c)
	s.emit(GameEvent{Type: EventCardDiscarded, User: eventUser(owner), Card: eventCard(c)})
}

// discardFrom removes the card with id from p and discards it.
func (s *GameState) discardFrom(p *models.Player, id uuid.UUID) bool {
	c, ok := p.RemoveCard(id)
	if !ok {
		return false
	}
	s.discard(p, c)
	return true
}

func (s *GameState) discardAll(p *models.Player) {
	for _, c := range p.RemoveAll() {
		s.discard(p, c)
	}
}

// returnToDeck puts cards back on top of the draw pile, cards[0] topmost.
func (s *GameState) returnToDeck(cards []*models.Card) {
	s.Deck.ReturnToTop(cards)
	for _, c := range cards {
		s.emit(GameEvent{Type: EventCardReturned, Card: eventCard(c)})
	}
}

// applyDamage hurts p. Revival with Beers is allowed while at least BeerMinAlive
// players besides p are alive.
func (s *GameState) applyDamage(p *models.Player, damage int) {
	allowRevival := s.aliveCount()-1 >= s.Rules.BeerMinAlive
	spent, alive := p.ApplyDamage(damage, allowRevival)
	for _, beer := range spent {
		s.discard(p, beer)
	}
	s.emit(GameEvent{
		Type:    EventHealthChanged,
		User:    eventUser(p),
		Payload: map[string]interface{}{"health": p.Health, "delta": -damage, "beers": len(spent)},
	})
	if !alive {
		s.log.WithFields(logrus.Fields{"player": p.ID, "role": p.Role}).Info("player died")
		s.emit(GameEvent{Type: EventPlayerDied, User: eventUser(p), Payload: map[string]interface{}{"role": p.Role.String()}})
	}
}

func (s *GameState) heal(p *models.Player, amount int) {
	if gained := p.Heal(amount); gained > 0 {
		s.emit(GameEvent{
			Type:    EventHealthChanged,
			User:    eventUser(p),
			Payload: map[string]interface{}{"health": p.Health, "delta": gained},
		})
	}
}

func (s *GameState) attempts() int {
	return 1 + s.Rules.MaxPromptRetries
}

// choosePlayer asks requester for one of candidates, re-asking on answers outside the
// list. Running out of attempts is ErrNotFound.
func (s *GameState) choosePlayer(ctx context.Context, requester *models.Player, candidates []*models.Player) (*models.Player, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no players to choose from: %w", ErrNotFound)
	}
	ids := make([]uuid.UUID, len(candidates))
	for i, p := range candidates {
		ids[i] = p.ID
	}
	for attempt := 0; attempt < s.attempts(); attempt++ {
		id, err := s.interactor.ChoosePlayer(ctx, ids, requester.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range candidates {
			if p.ID == id {
				return p, nil
			}
		}
		s.log.WithFields(logrus.Fields{"player": requester.ID, "answer": id, "attempt": attempt + 1}).
			Warn("rejected player choice")
	}
	return nil, fmt.Errorf("player choice by %s: %w", requester.ID, ErrNotFound)
}

// chooseCard asks chooser for one of candidates; the first unknown are face-down.
func (s *GameState) chooseCard(ctx context.Context, chooser *models.Player, candidates []*models.Card, unknown int) (*models.Card, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no cards to choose from: %w", ErrNotFound)
	}
	for attempt := 0; attempt < s.attempts(); attempt++ {
		id, err := s.interactor.ChooseCard(ctx, candidates, unknown, chooser.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if c.ID == id {
				return c, nil
			}
		}
		s.log.WithFields(logrus.Fields{"player": chooser.ID, "answer": id, "attempt": attempt + 1}).
			Warn("rejected card choice")
	}
	return nil, fmt.Errorf("card choice by %s: %w", chooser.ID, ErrNotFound)
}

func (s *GameState) confirm(ctx context.Context, p *models.Player, name models.CardName) (bool, error) {
	return s.interactor.Confirm(ctx, p.ID, name)
}

// census lists the id of every card in play, wherever it is.
func (s *GameState) census() []uuid.UUID {
	var ids []uuid.UUID
	for _, p := range s.Players {
		for _, c := range p.Visible() {
			ids = append(ids, c.ID)
		}
	}
	for _, c := range s.Deck.DrawPile() {
		ids = append(ids, c.ID)
	}
	for _, c := range s.Deck.DiscardPile() {
		ids = append(ids, c.ID)
	}
	return ids
}
