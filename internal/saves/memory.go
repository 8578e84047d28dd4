// Package saves holds an in-process SaveRepository for simulations and tests.
package saves

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jason-s-yu/bang/internal/game"
)

var _ game.SaveRepository = (*Memory)(nil)

// Memory stores snapshots as JSON so a loaded snapshot never aliases a saved one.
type Memory struct {
	mu      sync.Mutex
	next    int64
	data    map[int64][]byte
	created map[int64]time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		data:    make(map[int64][]byte),
		created: make(map[int64]time.Time),
		now:     time.Now,
	}
}

func (m *Memory) Save(ctx context.Context, snap *game.GameSnapshot) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.data[m.next] = raw
	m.created[m.next] = m.now()
	return m.next, nil
}

func (m *Memory) Load(ctx context.Context, id int64) (*game.GameSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	raw, ok := m.data[id]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("save %d: %w", id, game.ErrNotFound)
	}
	var snap game.GameSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decoding save %d: %w", id, err)
	}
	return &snap, nil
}

func (m *Memory) List(ctx context.Context) (map[int64]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]time.Time, len(m.created))
	for id, t := range m.created {
		out[id] = t
	}
	return out, nil
}
