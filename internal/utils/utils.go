package utils

import "strings"

const (
	RoomCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	RoomCodeLength  = 5
)

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// Shuffle returns a Fisher-Yates shuffled copy of items; the input is untouched.
func Shuffle[T any](src Random, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// GenerateRoomCode draws length characters from RoomCodeCharset.
func GenerateRoomCode(src Random, length int) string {
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(RoomCodeCharset[src.Intn(len(RoomCodeCharset))])
	}
	return b.String()
}

// PickOne returns a uniformly chosen element, or the zero value for an empty slice.
func PickOne[T any](src Random, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[src.Intn(len(items))], true
}
