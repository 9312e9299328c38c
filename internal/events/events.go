// Package events publishes room lifecycle events to interested sinks such
// as a Kafka topic or the game archive. Publishing never blocks the caller
// on I/O and never reports failure back to it.
package events

import (
	"context"
	"time"

	"github.com/scythe504/charades-backend/internal"
)

type Type string

const (
	RoomCreated     Type = "room_created"
	RoomClosed      Type = "room_closed"
	PlayerJoined    Type = "player_joined"
	PlayerLeft      Type = "player_left"
	PlayerKicked    Type = "player_kicked"
	GameStarted     Type = "game_started"
	TurnEnded       Type = "turn_ended"
	GameEnded       Type = "game_ended"
	ReturnedToLobby Type = "returned_to_lobby"
)

type Event struct {
	Type Type      `json:"type"`
	Room string    `json:"room"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

type PlayerData struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type GameStartedData struct {
	Players         int `json:"players"`
	RoundsPerPlayer int `json:"rounds_per_player"`
	TurnDuration    int `json:"turn_duration"`
	Turns           int `json:"turns"`
}

// GameSummary is attached to GameEnded events.
type GameSummary struct {
	RoundsPerPlayer int               `json:"rounds_per_player"`
	TurnDuration    int               `json:"turn_duration"`
	TurnsPlayed     int               `json:"turns_played"`
	Standings       []internal.Player `json:"standings"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Multi fans an event out to every publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, ev)
		}
	}
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, ev Event)

func (f PublisherFunc) Publish(ctx context.Context, ev Event) {
	f(ctx, ev)
}
