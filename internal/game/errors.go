package game

import "errors"

var (
	ErrWrongPhase       = errors.New("action not allowed in the current phase")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyInRoom    = errors.New("player already in room")
	ErrNameTaken        = errors.New("name already taken")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotActor         = errors.New("player is not the current actor")
	ErrActorCannotGuess = errors.New("the actor cannot guess")
	ErrAlreadyGuessed   = errors.New("player already guessed correctly")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNotHost          = errors.New("only the host can do that")
	ErrInvalidSettings  = errors.New("invalid settings")
	ErrCannotKickSelf   = errors.New("host cannot kick themselves")
	ErrNoPhrases        = errors.New("no phrases available")

	ErrInvalidName     = errors.New("invalid player name")
	ErrInvalidRoomCode = errors.New("invalid room code")
	ErrRoomNotFound    = errors.New("room not found")
	ErrGameInProgress  = errors.New("game already in progress")
	ErrServerFull      = errors.New("server is full")
	ErrNotInRoom       = errors.New("player is not in a room")
)

var userMessages = map[error]string{
	ErrWrongPhase:       "You can't do that right now",
	ErrRoomFull:         "Room is full",
	ErrAlreadyInRoom:    "You are already in this room",
	ErrNameTaken:        "Name already taken",
	ErrNotEnoughPlayers: "Need at least 2 players to start",
	ErrNotActor:         "Only the actor can do that",
	ErrActorCannotGuess: "The actor can't guess",
	ErrAlreadyGuessed:   "You already guessed it",
	ErrPlayerNotFound:   "Player not found",
	ErrNotHost:          "Only the host can do that",
	ErrInvalidSettings:  "Invalid settings",
	ErrCannotKickSelf:   "You cannot kick yourself",
	ErrNoPhrases:        "No phrases available",
	ErrInvalidName:      "Invalid player name",
	ErrInvalidRoomCode:  "Invalid room code",
	ErrRoomNotFound:     "Room not found",
	ErrGameInProgress:   "Game already in progress",
	ErrServerFull:       "Server is full, try again later",
	ErrNotInRoom:        "You are not in a room",
}

// UserMessage returns the short text shown to a player whose action was
// rejected with err.
func UserMessage(err error) string {
	for target, msg := range userMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return "Something went wrong"
}
