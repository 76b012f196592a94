/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Assign maps each player's display name to a distinct role index in
// [0, len(round.Roles)). Roles are drawn uniformly at random without
// replacement, walking the players in join order, so the result is a
// bijection onto a subset of the role indices.
//
// Duplicate display names are not deduplicated; a later player with the
// same name overwrites the earlier one's entry.
func Assign(round RoundDefinition, players []Player) (map[string]int, error) {
	if len(players) > len(round.Roles) {
		return nil, fmt.Errorf("%w: %d players, %d roles", ErrInsufficientRoles, len(players), len(round.Roles))
	}

	pool := make([]int, len(round.Roles))
	for i := range pool {
		pool[i] = i
	}

	assignment := make(map[string]int, len(players))

	for _, player := range players {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
		if err != nil {
			return nil, fmt.Errorf("drawing role: %w", err)
		}

		drawn := int(n.Int64())
		assignment[player.DisplayName] = pool[drawn]
		pool[drawn] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}

	return assignment, nil
}
