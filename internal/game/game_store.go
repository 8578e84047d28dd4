package game

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore is an in-memory registry of running games keyed by game id.
type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*GameManager
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*GameManager),
	}
}

// AddGame registers m under its current game id; call it after Init or Load.
func (s *GameStore) AddGame(m *GameManager) uuid.UUID {
	id := m.GameID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = m
	return id
}

func (s *GameStore) GetGame(id uuid.UUID) (*GameManager, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Finished returns the ids of games that have a winner.
func (s *GameStore) Finished() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for id, g := range s.games {
		if g.Winner().Terminal() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len counts registered games, finished or not.
func (s *GameStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}
