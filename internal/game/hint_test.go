package game

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/charades-backend/internal/utils"
)

func TestNewRevealOrderCoversLettersOnly(t *testing.T) {
	order := NewRevealOrder(utils.NewSeededRandom(5), "Up, 2!")
	assert.ElementsMatch(t, []int{0, 1, 4}, order)
}

func TestRevealCountSchedule(t *testing.T) {
	const revealable = 11
	duration := 90 * time.Second
	ceiling := int(math.Floor(revealable * 0.5))

	prev := 0
	for e := 0; e <= 90; e++ {
		got := RevealCount(revealable, duration, time.Duration(e)*time.Second)
		if e <= 31 {
			assert.Zero(t, got, "elapsed %d", e)
		}
		assert.GreaterOrEqual(t, got, prev, "elapsed %d", e)
		assert.LessOrEqual(t, got, ceiling, "elapsed %d", e)
		prev = got
	}
	assert.Equal(t, ceiling, RevealCount(revealable, duration, 82*time.Second))
	assert.Equal(t, ceiling, RevealCount(revealable, duration, 200*time.Second))
}

func TestRevealCountDegenerate(t *testing.T) {
	assert.Zero(t, RevealCount(1, 60*time.Second, 60*time.Second), "half of one letter rounds down")
	assert.Zero(t, RevealCount(10, 0, time.Second))
}

func TestRenderHint(t *testing.T) {
	secret := "Up, Go"
	order := []int{4, 0, 1, 5}
	duration := 60 * time.Second

	h := RenderHint(secret, order, duration, 0)
	assert.Equal(t, "_ _ ,   _ _", h.Display)
	assert.Equal(t, 0, h.Revealed)
	assert.Equal(t, 4, h.Total)

	h = RenderHint(secret, order, duration, duration)
	assert.Equal(t, "U _ ,   G _", h.Display)
	assert.Equal(t, 2, h.Revealed)
}

func TestRenderHintStableAcrossTicks(t *testing.T) {
	secret := "The Lion King"
	order := NewRevealOrder(utils.NewSeededRandom(8), secret)
	duration := 90 * time.Second

	var prev []string
	for e := 0; e <= 90; e++ {
		glyphs := strings.Split(RenderHint(secret, order, duration, time.Duration(e)*time.Second).Display, " ")
		if prev != nil {
			require.Len(t, glyphs, len(prev))
			for i, g := range prev {
				if g != "_" {
					assert.Equal(t, g, glyphs[i], "revealed letter %d changed at %ds", i, e)
				}
			}
		}
		prev = glyphs
	}
}
