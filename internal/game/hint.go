package game

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/scythe504/charades-backend/internal"
	"github.com/scythe504/charades-backend/internal/utils"
)

const (
	HintStartFraction = 0.35
	HintEndFraction   = 0.90
	HintMaxFraction   = 0.50
)

func isRevealable(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// NewRevealOrder shuffles the rune positions of secret that can be revealed.
// It is computed once per turn.
func NewRevealOrder(src utils.Random, secret string) []int {
	positions := make([]int, 0, len(secret))
	for i, r := range []rune(secret) {
		if isRevealable(r) {
			positions = append(positions, i)
		}
	}
	return utils.Shuffle(src, positions)
}

// RevealCount is 0 until 35% of the turn has passed, then grows linearly to
// half of the revealable letters at 90% and stays there.
func RevealCount(revealable int, duration, elapsed time.Duration) int {
	ceiling := int(math.Floor(float64(revealable) * HintMaxFraction))
	if ceiling <= 0 || duration <= 0 {
		return 0
	}

	startAt := float64(duration) * HintStartFraction
	endAt := float64(duration) * HintEndFraction
	e := float64(elapsed)
	switch {
	case e <= startAt:
		return 0
	case e >= endAt:
		return ceiling
	}
	return int(math.Floor(float64(ceiling) * (e - startAt) / (endAt - startAt)))
}

// RenderHint masks secret for guessers. Revealed positions show the upper
// case letter, hidden letters show "_" and every other rune passes through.
func RenderHint(secret string, order []int, duration, elapsed time.Duration) internal.Hint {
	count := min(RevealCount(len(order), duration, elapsed), len(order))
	revealed := make(map[int]struct{}, count)
	for _, pos := range order[:count] {
		revealed[pos] = struct{}{}
	}

	glyphs := make([]string, 0, len(secret))
	for i, r := range []rune(secret) {
		switch {
		case !isRevealable(r):
			glyphs = append(glyphs, string(r))
		case hasKey(revealed, i):
			glyphs = append(glyphs, string(unicode.ToUpper(r)))
		default:
			glyphs = append(glyphs, "_")
		}
	}

	return internal.Hint{
		Display:  strings.Join(glyphs, " "),
		Revealed: count,
		Total:    len(order),
	}
}

func hasKey(m map[int]struct{}, k int) bool {
	_, ok := m[k]
	return ok
}
