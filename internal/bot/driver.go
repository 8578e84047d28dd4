package bot

import (
	"context"
	"errors"
	"math/rand"

	"github.com/jason-s-yu/bang/internal/game"
	"github.com/jason-s-yu/bang/internal/models"
)

// ErrTurnLimit is returned by PlayGame when no side has won within the turn limit.
var ErrTurnLimit = errors.New("turn limit reached")

// Driver takes the active player's turns: it plays cards from hand in random order
// until none is accepted, discards down to the hand limit and ends the turn.
type Driver struct {
	rng *rand.Rand
	// MaxPlays caps card plays per turn.
	MaxPlays int
}

func NewDriver(seed int64) *Driver {
	return &Driver{rng: rand.New(rand.NewSource(seed)), MaxPlays: 10}
}

// PlayTurn plays one turn for the current player.
func (d *Driver) PlayTurn(ctx context.Context, m *game.GameManager) (game.Outcome, error) {
	cur := m.Current()
	for plays := 0; plays < d.MaxPlays; plays++ {
		hand := append([]*models.Card(nil), cur.Hand...)
		d.rng.Shuffle(len(hand), func(i, j int) { hand[i], hand[j] = hand[j], hand[i] })

		played := false
		for _, c := range hand {
			out, err := m.PlayCard(ctx, c.ID)
			if err != nil {
				return game.Ok, err
			}
			if out.Terminal() {
				return out, nil
			}
			if m.Current().ID != cur.ID {
				// died during their own turn; the engine already moved on
				return game.Ok, nil
			}
			if out == game.Ok {
				played = true
				break
			}
		}
		if !played {
			break
		}
	}

	for len(cur.Hand) > cur.Health {
		c := cur.Hand[d.rng.Intn(len(cur.Hand))]
		if err := m.DiscardCard(c.ID); err != nil {
			return game.Ok, err
		}
	}
	return m.EndTurn(ctx)
}

// PlayGame runs turns until a side wins or maxTurns is reached.
func (d *Driver) PlayGame(ctx context.Context, m *game.GameManager, maxTurns int) (game.Outcome, int, error) {
	for turn := 1; turn <= maxTurns; turn++ {
		out, err := d.PlayTurn(ctx, m)
		if err != nil {
			return game.Ok, turn, err
		}
		if out.Terminal() {
			return out, turn, nil
		}
	}
	return game.Ok, maxTurns, ErrTurnLimit
}
