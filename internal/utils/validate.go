package utils

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxPlayerNameLength = 20
	MinRoomCodeLength   = 4
	MaxRoomCodeLength   = 6
)

// ValidatePlayerName trims name and accepts 1 to 20 characters.
func ValidatePlayerName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	if n == 0 || n > MaxPlayerNameLength {
		return "", false
	}
	return trimmed, true
}

// ValidateRoomCode trims and upper-cases code; 4 to 6 characters are accepted.
func ValidateRoomCode(code string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	n := utf8.RuneCountInString(upper)
	if n < MinRoomCodeLength || n > MaxRoomCodeLength {
		return "", false
	}
	return upper, true
}

// ValidateGuess trims text and rejects empty or over-long guesses.
func ValidateGuess(text string, maxLen int) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxLen {
		return "", false
	}
	return trimmed, true
}
