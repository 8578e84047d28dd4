// internal/game/rules.go
package game

import (
	"encoding/json"
	"fmt"
)

// HouseRules holds the tunable constants of the engine. The defaults are the classic game.
type HouseRules struct {
	SheriffHealth     int  `json:"sheriffHealth"`     // starting and max health of the Sheriff
	PlayerHealth      int  `json:"playerHealth"`      // starting and max health of everyone else
	SheriffBonusCards int  `json:"sheriffBonusCards"` // extra cards dealt to the Sheriff
	DrawPerTurn       int  `json:"drawPerTurn"`       // cards drawn at the start of each turn
	BeerMinAlive      int  `json:"beerMinAlive"`      // Beer (and Beer revival) needs at least this many players alive
	OutlawBounty      int  `json:"outlawBounty"`      // cards drawn for killing an Outlaw
	DeputyPenalty     bool `json:"deputyPenalty"`     // Sheriff discards everything after killing a Deputy
	MaxPromptRetries  int  `json:"maxPromptRetries"`  // times an invalid interaction answer is asked again
}

// DefaultHouseRules returns the classic rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		SheriffHealth:     5,
		PlayerHealth:      4,
		SheriffBonusCards: 2,
		DrawPerTurn:       2,
		BeerMinAlive:      3,
		OutlawBounty:      3,
		DeputyPenalty:     true,
		MaxPromptRetries:  3,
	}
}

// Update will update the house rules with the new rules provided.
// If a rule is not set or defined, it will be ignored, and the old value will persist.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignBool := func(field *bool, key string) error {
		if val, exists := newRules[key]; exists && val != nil {
			b, ok := val.(bool)
			if !ok {
				return fmt.Errorf("invalid type for %s", key)
			}
			*field = b
		}
		return nil
	}

	assignInt := func(field *int, key string, minVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		// JSON numbers decode as float64
		var n int
		switch v := val.(type) {
		case float64:
			n = int(v)
		case int:
			n = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if n < minVal {
			return fmt.Errorf("%s must be at least %d", key, minVal)
		}
		*field = n
		return nil
	}

	ints := []struct {
		field *int
		key   string
		min   int
	}{
		{&rules.SheriffHealth, "sheriffHealth", 1},
		{&rules.PlayerHealth, "playerHealth", 1},
		{&rules.SheriffBonusCards, "sheriffBonusCards", 0},
		{&rules.DrawPerTurn, "drawPerTurn", 0},
		{&rules.BeerMinAlive, "beerMinAlive", 0},
		{&rules.OutlawBounty, "outlawBounty", 0},
		{&rules.MaxPromptRetries, "maxPromptRetries", 0},
	}
	for _, r := range ints {
		if err := assignInt(r.field, r.key, r.min); err != nil {
			return err
		}
	}
	return assignBool(&rules.DeputyPenalty, "deputyPenalty")
}

// ParseRules converts a map of rules to a HouseRules struct. It will ensure the types are valid.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	err := houseRules.Update(rules)
	return houseRules, err
}

// ParseRulesJSON applies a JSON object of overrides on top of the defaults. Empty input
// yields the defaults.
func ParseRulesJSON(raw string) (HouseRules, error) {
	if raw == "" {
		return DefaultHouseRules(), nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return HouseRules{}, fmt.Errorf("decode house rules: %w", err)
	}
	return ParseRules(m, DefaultHouseRules())
}
