package internal

import (
	"slices"
	"time"
)

const (
	MaxPlayersPerRoom = 12
	MinPlayersToStart = 2
	MaxClueTiles      = 12
	MaxGuessLength    = 200

	// MaxCorrectBeforeEnd ends a turn early once this many guessers have
	// answered, even if others are still guessing.
	MaxCorrectBeforeEnd = 3

	CountdownInterval = 1 * time.Second
	TurnEndDelay      = 5 * time.Second

	DefaultRoundsPerPlayer = 1
	DefaultTurnDuration    = 90
)

var (
	AllowedRoundsPerPlayer = []int{1, 2, 3}
	AllowedTurnDurations   = []int{60, 90, 120}
)

type GamePhase string

const (
	PhaseLobby      GamePhase = "LOBBY"
	PhaseTurnActive GamePhase = "TURN_ACTIVE"
	PhaseTurnEnd    GamePhase = "TURN_END"
	PhaseGameEnd    GamePhase = "GAME_END"
)

type Settings struct {
	RoundsPerPlayer int `json:"rounds_per_player"`
	TurnDuration    int `json:"turn_duration"`
}

func DefaultSettings() Settings {
	return Settings{
		RoundsPerPlayer: DefaultRoundsPerPlayer,
		TurnDuration:    DefaultTurnDuration,
	}
}

// ValidRoundsPerPlayer reports whether n is one of the selectable round counts.
func ValidRoundsPerPlayer(n int) bool {
	return slices.Contains(AllowedRoundsPerPlayer, n)
}

// ValidTurnDuration reports whether secs is one of the selectable turn lengths.
func ValidTurnDuration(secs int) bool {
	return slices.Contains(AllowedTurnDurations, secs)
}

// TurnDurationValue converts the configured turn length to a time.Duration.
func (s Settings) TurnDurationValue() time.Duration {
	return time.Duration(s.TurnDuration) * time.Second
}

type GuessMessage struct {
	PlayerName string `json:"player_name"`
	Text       string `json:"text"`
	Correct    bool   `json:"correct"`
	System     bool   `json:"system"`
}

type Winner struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type TurnResult struct {
	Word        string   `json:"word"`
	ActorName   string   `json:"actor_name"`
	Winners     []Winner `json:"winners"`
	ActorPoints int      `json:"actor_points"`
}

type Hint struct {
	Display  string `json:"display"`
	Revealed int    `json:"revealed"`
	Total    int    `json:"total"`
}

// Snapshot is the view of a room pushed to a single player.
type Snapshot struct {
	Code            string         `json:"code"`
	Phase           GamePhase      `json:"phase"`
	Players         []Player       `json:"players"`
	HostID          string         `json:"host_id"`
	Settings        Settings       `json:"settings"`
	CurrentRound    int            `json:"current_round"`
	TotalRounds     int            `json:"total_rounds"`
	CurrentActorID  string         `json:"current_actor_id,omitempty"`
	Emojis          []string       `json:"emojis"`
	TimeRemaining   int            `json:"time_remaining"`
	Guesses         []GuessMessage `json:"guesses"`
	CorrectGuessers []string       `json:"correct_guessers"`
	Hint            *Hint          `json:"hint"`
	TurnResult      *TurnResult    `json:"turn_result"`
	CurrentWord     string         `json:"current_word,omitempty"`
	FinalStandings  []Player       `json:"final_standings,omitempty"`
}

// RoomSummary is the public, spoiler-free description of a room.
type RoomSummary struct {
	Code        string    `json:"code"`
	Phase       GamePhase `json:"phase"`
	PlayerCount int       `json:"player_count"`
	Joinable    bool      `json:"joinable"`
}

type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}
