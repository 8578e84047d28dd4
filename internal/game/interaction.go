// internal/game/interaction.go
package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/models"
)

// Interactor answers the questions a resolution needs from the players. Answers are
// validated by the engine; an id outside the candidates is rejected and asked again.
type Interactor interface {
	// ChoosePlayer asks requester to pick one of candidates.
	ChoosePlayer(ctx context.Context, candidates []uuid.UUID, requester uuid.UUID) (uuid.UUID, error)

	// ChooseCard asks chooser to pick one of candidates. The first unknown entries are
	// face-down to the chooser and should be treated as indistinguishable.
	ChooseCard(ctx context.Context, candidates []*models.Card, unknown int, chooser uuid.UUID) (uuid.UUID, error)

	// Confirm asks player whether to use a card of the given name in response to an attack.
	Confirm(ctx context.Context, player uuid.UUID, name models.CardName) (bool, error)
}

// CardSource supplies the full set of cards a new game is built from.
type CardSource interface {
	GetAll(ctx context.Context) ([]*models.Card, error)
}

// SaveRepository persists game snapshots under integer ids.
type SaveRepository interface {
	Save(ctx context.Context, snap *GameSnapshot) (int64, error)
	Load(ctx context.Context, id int64) (*GameSnapshot, error)
	// List maps every save id to its creation time.
	List(ctx context.Context) (map[int64]time.Time, error)
}
