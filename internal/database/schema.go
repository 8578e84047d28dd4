package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is idempotent; Migrate runs it on every start.
var schema = []string{
	`CREATE SCHEMA IF NOT EXISTS decks`,
	`CREATE TABLE IF NOT EXISTS decks.classic_deck (
		id   SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		suit TEXT NOT NULL,
		rank TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS game_saves (
		id      BIGSERIAL PRIMARY KEY,
		game_id UUID NOT NULL,
		created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		state   JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS game_events (
		game_id     UUID NOT NULL,
		seq         INT NOT NULL,
		actor_id    UUID,
		target_id   UUID,
		event_type  TEXT NOT NULL,
		payload     JSONB,
		occurred_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (game_id, seq)
	)`,
}

// Migrate creates the tables the engine uses.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
