package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
)

func TestMultiFansOutInOrder(t *testing.T) {
	var got []string
	record := func(name string) Publisher {
		return PublisherFunc(func(_ context.Context, ev Event) {
			got = append(got, name+":"+string(ev.Type))
		})
	}

	m := Multi{record("a"), nil, record("b")}
	m.Publish(context.Background(), Event{Type: GameStarted, Room: "ABCDE"})

	assert.Equal(t, []string{"a:game_started", "b:game_started"}, got)
}

func TestToMessageKeysByRoom(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ev := Event{
		Type: GameEnded,
		Room: "QWERT",
		At:   at,
		Data: GameSummary{
			RoundsPerPlayer: 2,
			TurnDuration:    60,
			TurnsPlayed:     6,
			Standings:       []internal.Player{{Id: "p1", Name: "Ann", Score: 17}},
		},
	}

	msg, err := toMessage(ev)
	require.NoError(t, err)

	assert.Equal(t, "QWERT", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "game_ended", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "game_ended", decoded["type"])
	data := decoded["data"].(map[string]any)
	assert.EqualValues(t, 6, data["turns_played"])
}

func TestToMessageRejectsUnencodableData(t *testing.T) {
	_, err := toMessage(Event{Type: TurnEnded, Data: make(chan int)})
	assert.Error(t, err)
}

func TestLogPublisherDoesNotPanic(t *testing.T) {
	p := NewLogPublisher(zap.NewNop())
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), Event{Type: RoomCreated, Room: "ABCDE"})
	})
	Nop{}.Publish(context.Background(), Event{})
}
