// internal/game/cards.go
package game

import (
	"context"

	"github.com/jason-s-yu/bang/internal/models"
)

// play resolves card for the current player. Instants are left in the hand for the
// caller to discard on Ok; board cards and weapons are moved here. A CantPlay or TooFar
// result leaves the table exactly as it was.
func play(ctx context.Context, s *GameState, card *models.Card) (Outcome, error) {
	switch card.Name {
	case models.Bang:
		return playBang(ctx, s, card)
	case models.Missed:
		return CantPlay, nil
	case models.Beer:
		return playBeer(s, card)
	case models.Panic:
		return playPanic(ctx, s, card)
	case models.CatBalou:
		return playCatBalou(ctx, s, card)
	case models.Indians:
		return playIndians(ctx, s, card)
	case models.Gatling:
		return playGatling(ctx, s, card)
	case models.Saloon:
		return playSaloon(s, card)
	case models.Duel:
		return playDuel(ctx, s, card)
	case models.Stagecoach:
		return playDrawCards(s, card, 2)
	case models.WellsFargo:
		return playDrawCards(s, card, 3)
	case models.GeneralStore:
		return playGeneralStore(ctx, s, card)
	case models.Scope, models.Mustang, models.Barrel, models.Dynamite, models.BeerBarrel:
		return playEquipment(s, card)
	case models.Jail:
		return playJail(ctx, s, card)
	case models.Volcanic, models.Schofield, models.Remington, models.Carabine, models.Winchester:
		return playWeapon(s, card)
	}
	return CantPlay, nil
}

func playBang(ctx context.Context, s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	if cur.BangPlayed && !cur.UnlimitedBang() {
		return CantPlay, nil
	}
	target, err := s.choosePlayer(ctx, cur, s.othersAlive(cur.ID))
	if err != nil {
		return Ok, err
	}
	if s.distance(cur, target) > cur.Range() {
		return TooFar, nil
	}
	cur.BangPlayed = true
	s.narrate(cur, target, card, true)
	return Ok, shoot(ctx, s, cur, target)
}

func playBeer(s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	if s.aliveCount() < s.Rules.BeerMinAlive || cur.Health >= cur.MaxHealth {
		return CantPlay, nil
	}
	s.heal(cur, 1)
	s.narrate(cur, nil, card, true)
	return Ok, nil
}

// takeCard lets the current player pick one card from target: hand (face-down) first,
// then board, then weapon.
func takeCard(ctx context.Context, s *GameState, target *models.Player) (*models.Card, error) {
	picked, err := s.chooseCard(ctx, s.current(), target.Visible(), len(target.Hand))
	if err != nil {
		return nil, err
	}
	target.RemoveCard(picked.ID)
	return picked, nil
}

func playPanic(ctx context.Context, s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	target, err := s.choosePlayer(ctx, cur, s.othersAlive(cur.ID))
	if err != nil {
		return Ok, err
	}
	if s.distance(cur, target) > 1 {
		return TooFar, nil
	}
	if target.CardCount() == 0 {
		return CantPlay, nil
	}
	stolen, err := takeCard(ctx, s, target)
	if err != nil {
		return Ok, err
	}
	s.giveToHand(cur, stolen)
	s.narrate(cur, target, card, true)
	return Ok, nil
}

func playCatBalou(ctx context.Context, s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	target, err := s.choosePlayer(ctx, cur, s.othersAlive(cur.ID))
	if err != nil {
		return Ok, err
	}
	if target.CardCount() == 0 {
		return CantPlay, nil
	}
	taken, err := takeCard(ctx, s, target)
	if err != nil {
		return Ok, err
	}
	s.discard(target, taken)
	s.narrate(cur, target, card, true)
	return Ok, nil
}

func playIndians(ctx context.Context, s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	s.narrate(cur, nil, card, true)
	for _, p := range s.othersAlive(cur.ID) {
		if bang := p.FirstInHand(models.Bang); bang != nil {
			ok, err := s.confirm(ctx, p, models.Bang)
			if err != nil {
				return Ok, err
			}
			if ok {
				s.discardFrom(p, bang.ID)
				continue
			}
		}
		s.applyDamage(p, 1)
	}
	return Ok, nil
}

func playGatling(ctx context.Context, s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	s.narrate(cur, nil, card, true)
	for _, p := range s.othersAlive(cur.ID) {
		if err := shoot(ctx, s, cur, p); err != nil {
			return Ok, err
		}
	}
	return Ok, nil
}

func playSaloon(s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	s.heal(cur, 2)
	for _, p := range s.othersAlive(cur.ID) {
		s.heal(p, 1)
	}
	s.narrate(cur, nil, card, true)
	return Ok, nil
}

// playDuel alternates Bang discards starting with the target; whoever cannot discard
// loses one health.
func playDuel(ctx context.Context, s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	target, err := s.choosePlayer(ctx, cur, s.othersAlive(cur.ID))
	if err != nil {
		return Ok, err
	}
	s.narrate(cur, target, card, true)
	side := target
	for {
		bang := side.FirstInHand(models.Bang)
		if bang == nil {
			break
		}
		s.discardFrom(side, bang.ID)
		if side == target {
			side = cur
		} else {
			side = target
		}
	}
	s.applyDamage(side, 1)
	return Ok, nil
}

func playDrawCards(s *GameState, card *models.Card, n int) (Outcome, error) {
	cur := s.current()
	if err := s.drawTo(cur, n); err != nil {
		return Ok, err
	}
	s.narrate(cur, nil, card, true)
	return Ok, nil
}

// playGeneralStore reveals one card per living player; each, starting with the current
// player, keeps one. If a pick cannot be settled the remaining cards go back on top of
// the draw pile.
func playGeneralStore(ctx context.Context, s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	order := append([]*models.Player{cur}, s.othersAlive(cur.ID)...)

	pool := make([]*models.Card, 0, len(order))
	for range order {
		c, err := s.draw()
		if err != nil {
			s.returnToDeck(pool)
			return Ok, err
		}
		pool = append(pool, c)
	}
	s.narrate(cur, nil, card, true)

	for _, p := range order {
		picked := pool[0]
		if len(pool) > 1 {
			var err error
			picked, err = s.chooseCard(ctx, p, pool, 0)
			if err != nil {
				s.returnToDeck(pool)
				return Ok, err
			}
		}
		pool = removeCard(pool, picked)
		s.giveToHand(p, picked)
	}
	return Ok, nil
}

func removeCard(cards []*models.Card, c *models.Card) []*models.Card {
	for i, x := range cards {
		if x == c {
			return append(cards[:i], cards[i+1:]...)
		}
	}
	return cards
}

func playEquipment(s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	if cur.OnBoard(card.Name) != nil {
		return CantPlay, nil
	}
	cur.RemoveCard(card.ID)
	s.putOnBoard(cur, card)
	s.narrate(cur, nil, card, true)
	return Ok, nil
}

func playJail(ctx context.Context, s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	target, err := s.choosePlayer(ctx, cur, s.othersAlive(cur.ID))
	if err != nil {
		return Ok, err
	}
	if target.Role == models.Sheriff || target.OnBoard(models.Jail) != nil {
		return CantPlay, nil
	}
	cur.RemoveCard(card.ID)
	s.putOnBoard(target, card)
	s.narrate(cur, target, card, true)
	return Ok, nil
}

func playWeapon(s *GameState, card *models.Card) (Outcome, error) {
	cur := s.current()
	cur.RemoveCard(card.ID)
	s.equip(cur, card)
	s.narrate(cur, nil, card, true)
	return Ok, nil
}
