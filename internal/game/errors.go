// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a card or player id is not where the caller said it
	// is, including interaction answers that name something outside the candidates.
	ErrNotFound = errors.New("not found")

	// ErrGameOver is returned by every mutating call once a win has been decided.
	ErrGameOver = errors.New("game is over")

	// ErrCatalog wraps any failure of the card source during Init.
	ErrCatalog = errors.New("card catalog unavailable")

	ErrDuplicateIDs  = errors.New("duplicate player ids")
	ErrDeckExhausted = errors.New("draw and discard piles are both empty")
	ErrNotStarted    = errors.New("game has not been initialized")
)

const (
	MinPlayers = 4
	MaxPlayers = 7
)

// PlayerCountError reports a seat list outside MinPlayers..MaxPlayers.
type PlayerCountError struct {
	Got int
}

func (e *PlayerCountError) Error() string {
	return fmt.Sprintf("need %d to %d players, got %d", MinPlayers, MaxPlayers, e.Got)
}
