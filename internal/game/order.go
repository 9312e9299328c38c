package game

import "github.com/scythe504/charades-backend/internal/utils"

// BuildTurnOrder concatenates rounds independent shuffles of playerIDs, so
// every player acts exactly once per round.
func BuildTurnOrder(src utils.Random, playerIDs []string, rounds int) []string {
	order := make([]string, 0, len(playerIDs)*max(rounds, 0))
	for range rounds {
		order = append(order, utils.Shuffle(src, playerIDs)...)
	}
	return order
}
