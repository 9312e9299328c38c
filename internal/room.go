package internal

import (
	"slices"
	"strings"
)

// Room is the authoritative state of one game session. It carries no
// locking of its own; the owner serializes every access.
type Room struct {
	Code     string
	Phase    GamePhase
	Players  []*Player
	HostID   string
	Settings Settings

	// Turn management. The current actor and round are always derived
	// from TurnOrder and TurnIndex, never stored.
	TurnOrder []string
	TurnIndex int

	// Per-turn state
	Word            string
	Clues           []string
	Guesses         []GuessMessage
	CorrectGuessers []string
	TimeRemaining   int
	RevealOrder     []int
	TurnResult      *TurnResult

	UsedWords map[string]struct{}
}

func NewRoom(code string) *Room {
	return &Room{
		Code:      code,
		Phase:     PhaseLobby,
		Players:   make([]*Player, 0, MaxPlayersPerRoom),
		Settings:  DefaultSettings(),
		UsedWords: make(map[string]struct{}),
	}
}

// Methods (Room Struct)
func (r *Room) GetPlayer(id string) *Player {
	for _, p := range r.Players {
		if p.Id == id {
			return p
		}
	}
	return nil
}

func (r *Room) CurrentActorID() string {
	if r.TurnIndex < 0 || r.TurnIndex >= len(r.TurnOrder) {
		return ""
	}
	return r.TurnOrder[r.TurnIndex]
}

func (r *Room) CurrentActor() *Player {
	id := r.CurrentActorID()
	if id == "" {
		return nil
	}
	return r.GetPlayer(id)
}

// CurrentRound is 1-based; it stays 1 until a turn order exists and never
// passes TotalRounds, even once the order is used up.
func (r *Room) CurrentRound() int {
	if len(r.TurnOrder) == 0 {
		return 1
	}
	perRound := len(r.Players)
	if perRound == 0 {
		perRound = 1
	}
	return min(r.TurnIndex/perRound+1, max(r.TotalRounds(), 1))
}

func (r *Room) TotalRounds() int {
	return r.Settings.RoundsPerPlayer
}

func (r *Room) GetPlayerCount() int {
	return len(r.Players)
}

func (r *Room) GetConnectedCount() int {
	count := 0
	for _, player := range r.Players {
		if player.Connected {
			count++
		}
	}
	return count
}

func (r *Room) CanStartGame() bool {
	return r.Phase == PhaseLobby && len(r.Players) >= MinPlayersToStart
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayersPerRoom
}

func (r *Room) IsHost(id string) bool {
	return id != "" && r.HostID == id
}

// NameTaken compares display names case-insensitively.
func (r *Room) NameTaken(name string) bool {
	for _, p := range r.Players {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (r *Room) HasGuessedCorrectly(id string) bool {
	return slices.Contains(r.CorrectGuessers, id)
}

// HasEveryoneGuessed reports whether every connected non-actor has answered.
func (r *Room) HasEveryoneGuessed() bool {
	actor := r.CurrentActorID()
	for _, player := range r.Players {
		if player.Connected && player.Id != actor && !r.HasGuessedCorrectly(player.Id) {
			return false
		}
	}
	return true
}

// ReassignHost hands the host role to the most senior connected player.
func (r *Room) ReassignHost() {
	for _, p := range r.Players {
		if p.Connected {
			r.HostID = p.Id
			return
		}
	}
}

// RemovePlayer drops id from the roster and the turn order. The turn index
// is shifted so that it keeps pointing at the same slot of the remaining
// order; it reports whether id was the current actor.
func (r *Room) RemovePlayer(id string) (wasActor bool) {
	wasActor = id != "" && r.CurrentActorID() == id
	r.Players = slices.DeleteFunc(r.Players, func(p *Player) bool {
		return p.Id == id
	})

	removedBefore := 0
	for i := 0; i < r.TurnIndex && i < len(r.TurnOrder); i++ {
		if r.TurnOrder[i] == id {
			removedBefore++
		}
	}
	r.TurnOrder = slices.DeleteFunc(r.TurnOrder, func(s string) bool {
		return s == id
	})
	r.TurnIndex -= removedBefore
	return wasActor
}

func (r *Room) ResetTurnState() {
	r.Word = ""
	r.Clues = []string{}
	r.Guesses = []GuessMessage{}
	r.CorrectGuessers = []string{}
	r.RevealOrder = nil
	r.TurnResult = nil
	r.TimeRemaining = 0
}

// ResetToLobby clears every piece of game progress and all scores.
func (r *Room) ResetToLobby() {
	r.Phase = PhaseLobby
	for _, p := range r.Players {
		p.ResetGameState()
	}
	r.TurnOrder = nil
	r.TurnIndex = 0
	r.UsedWords = make(map[string]struct{})
	r.ResetTurnState()
}

// Standings returns detached copies of the roster sorted by score, highest first.
func (r *Room) Standings() []Player {
	out := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p.ToPublicPlayer())
	}
	slices.SortStableFunc(out, func(a, b Player) int {
		return b.Score - a.Score
	})
	return out
}
