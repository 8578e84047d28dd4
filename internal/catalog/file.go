package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/jason-s-yu/bang/internal/models"
)

// FileConfig is the layout of a catalog TOML file:
//
//	[deck]
//	name = "classic"
//
//	[[card]]
//	name = "bang"
//	suit = "diamonds"
//	rank = "2"
//	count = 1
type FileConfig struct {
	Deck  DeckSection `toml:"deck"`
	Cards []FileCard  `toml:"card"`
}

type DeckSection struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// FileCard is one [[card]] table. Count defaults to 1.
type FileCard struct {
	Name  models.CardName `toml:"name"`
	Suit  models.Suit     `toml:"suit"`
	Rank  models.Rank     `toml:"rank"`
	Count int             `toml:"count"`
}

// File reads a card set from a TOML file on every GetAll.
type File struct {
	Path string
}

func (f File) GetAll(_ context.Context) ([]*models.Card, error) {
	var config FileConfig
	if _, err := toml.DecodeFile(f.Path, &config); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%s: %w: %v", f.Path, ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("error parsing %s: %w", f.Path, err)
	}
	return config.expand(f.Path)
}

func (c FileConfig) expand(path string) ([]*models.Card, error) {
	var cards []*models.Card
	for i, fc := range c.Cards {
		n := fc.Count
		if n == 0 {
			n = 1
		}
		if n < 0 {
			return nil, fmt.Errorf("%s: card %d (%s): negative count", path, i+1, fc.Name)
		}
		for j := 0; j < n; j++ {
			cards = append(cards, models.NewCard(fc.Name, fc.Suit, fc.Rank))
		}
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return cards, nil
}

// WriteFile encodes cards as a catalog file, one [[card]] per distinct card.
func WriteFile(w io.Writer, name string, cards []*models.Card) error {
	config := FileConfig{Deck: DeckSection{Name: name}}
	index := map[FileCard]int{}
	for _, c := range cards {
		key := FileCard{Name: c.Name, Suit: c.Suit, Rank: c.Rank}
		if i, ok := index[key]; ok {
			config.Cards[i].Count++
			continue
		}
		key.Count = 1
		index[FileCard{Name: c.Name, Suit: c.Suit, Rank: c.Rank}] = len(config.Cards)
		config.Cards = append(config.Cards, key)
	}
	return toml.NewEncoder(w).Encode(config)
}
