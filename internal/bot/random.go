// Package bot holds scripted players used by simulations and tests.
package bot

import (
	"context"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/game"
	"github.com/jason-s-yu/bang/internal/models"
)

var _ game.Interactor = (*Random)(nil)

// Random answers every question with a seeded uniform pick and always defends.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

func (r *Random) ChoosePlayer(ctx context.Context, candidates []uuid.UUID, _ uuid.UUID) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if len(candidates) == 0 {
		return uuid.Nil, nil
	}
	return candidates[r.intn(len(candidates))], nil
}

func (r *Random) ChooseCard(ctx context.Context, candidates []*models.Card, _ int, _ uuid.UUID) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if len(candidates) == 0 {
		return uuid.Nil, nil
	}
	return candidates[r.intn(len(candidates))].ID, nil
}

func (r *Random) Confirm(ctx context.Context, _ uuid.UUID, _ models.CardName) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}
