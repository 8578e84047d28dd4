package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/bang/internal/models"
)

// InsertGameEvents writes a batch of records in a single transaction. Records already
// archived (same game and seq) are skipped so a replayed queue does no harm.
func InsertGameEvents(ctx context.Context, pool *pgxpool.Pool, recs []models.GameActionRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range recs {
			if err := insertGameEventTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insert event %s/%d: %w", rec.GameID, rec.Seq, err)
			}
		}
		return nil
	})
}

func insertGameEventTx(ctx context.Context, tx pgx.Tx, rec models.GameActionRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}
	q := `
		INSERT INTO game_events (
			game_id, seq, actor_id, target_id, event_type, payload, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id, seq) DO NOTHING
	`
	_, err = tx.Exec(ctx, q,
		rec.GameID, rec.Seq, nullID(rec.ActorID), nullID(rec.TargetID), rec.ActionType, payload,
		time.UnixMilli(rec.Timestamp),
	)
	return err
}

// CountGameEvents returns how many events are archived for a game.
func CountGameEvents(ctx context.Context, pool *pgxpool.Pool, gameID uuid.UUID) (int, error) {
	var n int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM game_events WHERE game_id = $1`, gameID).Scan(&n)
	return n, err
}

func nullID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
