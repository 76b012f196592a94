/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// The built-in round set, from the original tabletop game.
//
//go:embed rounds.json
var defaultRounds []byte

// RoundDefinition is one entry in the catalogue: a prompt everyone hears,
// and the set of ways it can be performed.
type RoundDefinition struct {
	Prompt string   `json:"prompt"`
	Roles  []string `json:"roles"`
}

// Catalogue is a read-only, ordered set of rounds, loaded once at startup.
type Catalogue struct {
	rounds []RoundDefinition
}

func LoadCatalogue(data []byte) (*Catalogue, error) {
	var rounds []RoundDefinition

	if err := json.Unmarshal(data, &rounds); err != nil {
		return nil, fmt.Errorf("parsing round definitions: %w", err)
	}

	if len(rounds) == 0 {
		return nil, fmt.Errorf("no round definitions found")
	}

	for i, r := range rounds {
		if len(r.Roles) == 0 {
			return nil, fmt.Errorf("round %d (%q) has no roles", i, r.Prompt)
		}
	}

	return &Catalogue{rounds: rounds}, nil
}

// loadRounds returns the catalogue selected by the configuration, either
// the built-in set or the contents of --rounds.
func loadRounds(cfg *Config) (*Catalogue, error) {
	if cfg.rounds == "" {
		return LoadCatalogue(defaultRounds)
	}

	data, err := os.ReadFile(cfg.rounds)
	if err != nil {
		return nil, err
	}

	return LoadCatalogue(data)
}

func (c *Catalogue) Get(index int) (RoundDefinition, error) {
	if index < 0 || index >= len(c.rounds) {
		return RoundDefinition{}, ErrRoundOutOfRange
	}

	return c.rounds[index], nil
}

func (c *Catalogue) Len() int {
	return len(c.rounds)
}
