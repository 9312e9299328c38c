package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/charades-backend/internal/utils"
)

func TestBuildTurnOrder(t *testing.T) {
	src := utils.NewSeededRandom(3)
	for _, n := range []int{2, 3, 7, 12} {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		for rounds := 1; rounds <= 3; rounds++ {
			order := BuildTurnOrder(src, ids, rounds)
			require.Len(t, order, rounds*n)
			for r := 0; r < rounds; r++ {
				assert.ElementsMatch(t, ids, order[r*n:(r+1)*n], "round %d of %d players", r, n)
			}
		}
	}
}

func TestBuildTurnOrderRoundsAreIndependent(t *testing.T) {
	src := utils.NewSeededRandom(11)
	ids := []string{"a", "b", "c", "d", "e", "f"}
	differs := false
	for range 20 {
		order := BuildTurnOrder(src, ids, 2)
		for i := range ids {
			if order[i] != order[len(ids)+i] {
				differs = true
			}
		}
	}
	assert.True(t, differs, "rounds should not repeat the same permutation every time")
}

func TestBuildTurnOrderZeroRounds(t *testing.T) {
	assert.Empty(t, BuildTurnOrder(utils.NewSeededRandom(1), []string{"a", "b"}, 0))
}
