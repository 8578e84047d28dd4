// internal/game/effects.go
package game

import (
	"context"

	"github.com/jason-s-yu/bang/internal/models"
)

// shoot resolves one shot at target: Barrel check, then an optional Missed, then damage.
func shoot(ctx context.Context, s *GameState, shooter, target *models.Player) error {
	if barrel := target.OnBoard(models.Barrel); barrel != nil {
		check, err := s.drawCheck(target)
		if err != nil {
			return err
		}
		saved := check.Suit == models.Hearts
		s.narrate(target, shooter, barrel, saved)
		if saved {
			s.discardFrom(target, barrel.ID)
			return nil
		}
	}

	if missed := target.FirstInHand(models.Missed); missed != nil {
		ok, err := s.confirm(ctx, target, models.Missed)
		if err != nil {
			return err
		}
		if ok {
			s.discardFrom(target, missed.ID)
			s.narrate(target, shooter, missed, true)
			return nil
		}
	}

	s.applyDamage(target, 1)
	return nil
}

// lowRank reports the Two..Nine window used by Dynamite and Beer Barrel.
func lowRank(c *models.Card) bool {
	return c.Rank.Between(models.Two, models.Nine)
}

// passOn moves a board card from p to the next living player that does not already
// have one of the same name. If nobody qualifies it stays put.
func passOn(s *GameState, p *models.Player, card *models.Card) {
	for _, next := range s.othersAlive(p.ID) {
		if next.OnBoard(card.Name) != nil {
			continue
		}
		p.RemoveCard(card.ID)
		s.putOnBoard(next, card)
		return
	}
}

// resolveDynamite runs the turn-start Dynamite check for p.
func resolveDynamite(s *GameState, p *models.Player) error {
	dyn := p.OnBoard(models.Dynamite)
	if dyn == nil {
		return nil
	}
	check, err := s.drawCheck(p)
	if err != nil {
		return err
	}
	exploded := check.Suit == models.Spades && lowRank(check)
	s.narrate(p, nil, dyn, exploded)
	if exploded {
		s.applyDamage(p, 3)
		s.discardFrom(p, dyn.ID)
		return nil
	}
	passOn(s, p, dyn)
	return nil
}

// resolveBeerBarrel runs the turn-start Beer Barrel check for p, who must be alive.
func resolveBeerBarrel(s *GameState, p *models.Player) error {
	keg := p.OnBoard(models.BeerBarrel)
	if keg == nil || p.Dead {
		return nil
	}
	check, err := s.drawCheck(p)
	if err != nil {
		return err
	}
	tapped := check.Suit == models.Clubs && lowRank(check)
	s.narrate(p, nil, keg, tapped)
	if tapped {
		s.discardFrom(p, keg.ID)
		s.heal(p, 2)
		return nil
	}
	passOn(s, p, keg)
	return nil
}

// resolveJail runs the turn-start Jail check. The jail is always discarded; it reports
// whether p loses the turn.
func resolveJail(s *GameState, p *models.Player) (skip bool, err error) {
	jail := p.OnBoard(models.Jail)
	if jail == nil {
		return false, nil
	}
	check, err := s.drawCheck(p)
	if err != nil {
		return false, err
	}
	escaped := check.Suit == models.Hearts
	s.discardFrom(p, jail.ID)
	s.narrate(p, nil, jail, escaped)
	return !escaped, nil
}
