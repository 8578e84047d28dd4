package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/bang/internal/models"
)

// DefaultTable holds the classic deck, one row per physical card.
const DefaultTable = "decks.classic_deck"

// Postgres reads the card set from a table with text columns name, suit and rank.
type Postgres struct {
	Pool  *pgxpool.Pool
	Table string
}

func (p Postgres) table() string {
	if p.Table == "" {
		return DefaultTable
	}
	return p.Table
}

func (p Postgres) GetAll(ctx context.Context) ([]*models.Card, error) {
	if p.Pool == nil {
		return nil, fmt.Errorf("no database pool: %w", ErrSourceUnavailable)
	}
	q := fmt.Sprintf(`SELECT name, suit, rank FROM %s ORDER BY id`, pgx.Identifier(splitTable(p.table())).Sanitize())
	rows, err := p.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w: %v", p.table(), ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		var name, suit, rank string
		if err := rows.Scan(&name, &suit, &rank); err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.table(), err)
		}
		c, err := parseRow(name, suit, rank)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", p.table(), len(cards)+1, err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w: %v", p.table(), ErrSourceUnavailable, err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%s: %w", p.table(), ErrEmpty)
	}
	return cards, nil
}

// Seed replaces the table contents with cards.
func (p Postgres) Seed(ctx context.Context, cards []*models.Card) error {
	ident := pgx.Identifier(splitTable(p.table()))
	return pgx.BeginTxFunc(ctx, p.Pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, ident.Sanitize())); err != nil {
			return err
		}
		rows := make([][]interface{}, len(cards))
		for i, c := range cards {
			rows[i] = []interface{}{c.Name.String(), c.Suit.String(), c.Rank.String()}
		}
		_, err := tx.CopyFrom(ctx, ident, []string{"name", "suit", "rank"}, pgx.CopyFromRows(rows))
		return err
	})
}

func parseRow(name, suit, rank string) (*models.Card, error) {
	n, err := models.ParseCardName(name)
	if err != nil {
		return nil, err
	}
	s, err := models.ParseSuit(suit)
	if err != nil {
		return nil, err
	}
	r, err := models.ParseRank(rank)
	if err != nil {
		return nil, err
	}
	return models.NewCard(n, s, r), nil
}

// splitTable turns "schema.table" into identifier parts.
func splitTable(name string) []string {
	return strings.SplitN(name, ".", 2)
}
