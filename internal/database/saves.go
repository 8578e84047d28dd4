package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/bang/internal/game"
)

var _ game.SaveRepository = (*SaveRepository)(nil)

// SaveRepository keeps game snapshots as JSONB rows in game_saves.
type SaveRepository struct {
	Pool *pgxpool.Pool
}

func NewSaveRepository(pool *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{Pool: pool}
}

// Save inserts snap and returns the new save id.
func (r *SaveRepository) Save(ctx context.Context, snap *game.GameSnapshot) (int64, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	var id int64
	err = pgx.BeginTxFunc(ctx, r.Pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO game_saves (game_id, state)
			VALUES ($1, $2)
			RETURNING id
		`
		return tx.QueryRow(ctx, q, snap.GameID, data).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("storing game save: %w", err)
	}
	return id, nil
}

// Load reads save id. A missing row is game.ErrNotFound.
func (r *SaveRepository) Load(ctx context.Context, id int64) (*game.GameSnapshot, error) {
	var data []byte
	err := r.Pool.QueryRow(ctx, `SELECT state FROM game_saves WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("save %d: %w", id, game.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading save %d: %w", id, err)
	}
	var snap game.GameSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding save %d: %w", id, err)
	}
	return &snap, nil
}

// List returns every save id with its creation time.
func (r *SaveRepository) List(ctx context.Context) (map[int64]time.Time, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, created FROM game_saves ORDER BY created`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]time.Time)
	for rows.Next() {
		var (
			id      int64
			created time.Time
		)
		if err := rows.Scan(&id, &created); err != nil {
			return nil, err
		}
		out[id] = created
	}
	return out, rows.Err()
}
