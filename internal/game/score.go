package game

import "github.com/scythe504/charades-backend/internal"

var placePoints = [...]int{10, 7, 5}

const (
	DefaultGuesserPoints = 3
	ActorBonus           = 5
)

// GuesserPoints maps a 0-based finishing rank to points: 10, 7, 5, then 3.
func GuesserPoints(rank int) int {
	if rank < 0 || rank >= len(placePoints) {
		return DefaultGuesserPoints
	}
	return placePoints[rank]
}

// ActorPoints awards the actor a flat bonus when anybody guessed the phrase.
func ActorPoints(correctCount int) int {
	if correctCount > 0 {
		return ActorBonus
	}
	return 0
}

// CalculateTurnResult builds the summary of the turn that just ended. Ranks
// follow arrival order in CorrectGuessers; guessers who already left the
// room are omitted.
func CalculateTurnResult(room *internal.Room, actorPoints int) *internal.TurnResult {
	actorName := "Unknown"
	if actor := room.CurrentActor(); actor != nil {
		actorName = actor.Name
	}

	winners := make([]internal.Winner, 0, len(room.CorrectGuessers))
	for rank, id := range room.CorrectGuessers {
		p := room.GetPlayer(id)
		if p == nil {
			continue
		}
		winners = append(winners, internal.Winner{Name: p.Name, Points: GuesserPoints(rank)})
	}

	return &internal.TurnResult{
		Word:        room.Word,
		ActorName:   actorName,
		Winners:     winners,
		ActorPoints: actorPoints,
	}
}
