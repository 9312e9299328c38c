package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeAnswer canonicalizes free text for comparison: case is folded,
// accents are dropped, anything that is neither a letter, digit nor
// whitespace is removed and whitespace runs collapse to one space.
// NormalizeAnswer(NormalizeAnswer(s)) == NormalizeAnswer(s).
func NormalizeAnswer(input string) string {
	// Transformers are stateful, so each call builds its own chain.
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripAccents, cases.Fold().String(input))
	if err != nil {
		folded = strings.ToLower(input)
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, folded)

	return strings.Join(strings.Fields(cleaned), " ")
}

// AnswersMatch reports whether guess equals secret after normalization.
func AnswersMatch(guess, secret string) bool {
	want := NormalizeAnswer(secret)
	return want != "" && NormalizeAnswer(guess) == want
}
