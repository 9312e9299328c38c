package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
	"github.com/scythe504/charades-backend/internal/events"
	"github.com/scythe504/charades-backend/internal/utils"
)

// =============================================================================
// ROOM MANAGEMENT
// =============================================================================

// Options carries the collaborators of a Room. Zero fields get defaults.
type Options struct {
	Clock    Clock
	Random   utils.Random
	Phrases  []string
	Notifier Notifier
	Events   events.Publisher
	Logger   *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = RealClock()
	}
	if o.Random == nil {
		o.Random = utils.NewCryptoRandom()
	}
	if o.Notifier == nil {
		o.Notifier = NopNotifier{}
	}
	if o.Events == nil {
		o.Events = events.Nop{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Room is the state machine of one game session. Every exported method and
// every timer callback holds mu for its whole duration, so there is exactly
// one writer per room at any time.
type Room struct {
	mu    sync.Mutex
	state *internal.Room

	clock    Clock
	random   utils.Random
	phrases  []string
	notifier Notifier
	events   events.Publisher
	log      *zap.Logger

	countdown Timer
	turnEnd   Timer
	timerGen  uint64
	closed    bool
}

func NewRoom(code string, opts Options) *Room {
	opts = opts.withDefaults()
	return &Room{
		state:    internal.NewRoom(code),
		clock:    opts.Clock,
		random:   opts.Random,
		phrases:  opts.Phrases,
		notifier: opts.Notifier,
		events:   opts.Events,
		log:      opts.Logger.With(zap.String("room", code)),
	}
}

func (r *Room) Code() string {
	return r.state.Code
}

// AddPlayer joins a player to the lobby; the first player becomes host.
func (r *Room) AddPlayer(id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.canAdd(id, name); err != nil {
		return err
	}

	s := r.state
	s.Players = append(s.Players, internal.NewPlayer(id, name))
	if len(s.Players) == 1 {
		s.HostID = id
	}

	r.log.Info("player joined",
		zap.String("player", id),
		zap.String("name", name),
		zap.Int("players", len(s.Players)))
	r.publish(events.PlayerJoined, events.PlayerData{PlayerID: id, Name: name})
	r.notify()
	return nil
}

// CanAdd reports why AddPlayer would reject id and name, without changing
// the room.
func (r *Room) CanAdd(id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canAdd(id, name)
}

func (r *Room) canAdd(id, name string) error {
	s := r.state
	switch {
	case s.Phase != internal.PhaseLobby:
		return ErrWrongPhase
	case s.IsFull():
		return ErrRoomFull
	case s.GetPlayer(id) != nil:
		return ErrAlreadyInRoom
	case s.NameTaken(name):
		return ErrNameTaken
	}
	return nil
}

// RemovePlayer takes a player out of the roster (leave or kick).
func (r *Room) RemovePlayer(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removePlayer(id)
}

// DisconnectPlayer marks the player offline and then removes them; there is
// no reconnection window.
func (r *Room) DisconnectPlayer(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.state.GetPlayer(id)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Connected = false
	return r.removePlayer(id)
}

// Kick lets the host remove another player.
func (r *Room) Kick(hostID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case !r.state.IsHost(hostID):
		return ErrNotHost
	case hostID == targetID:
		return ErrCannotKickSelf
	case r.state.GetPlayer(targetID) == nil:
		return ErrPlayerNotFound
	}

	r.publish(events.PlayerKicked, events.PlayerData{PlayerID: targetID, Name: r.state.GetPlayer(targetID).Name})
	return r.removePlayer(targetID)
}

func (r *Room) removePlayer(id string) error {
	s := r.state
	p := s.GetPlayer(id)
	if p == nil {
		return ErrPlayerNotFound
	}

	wasActor := s.RemovePlayer(id)
	r.log.Info("player removed",
		zap.String("player", id),
		zap.Bool("was_actor", wasActor),
		zap.String("phase", string(s.Phase)),
		zap.Int("players", len(s.Players)))
	r.publish(events.PlayerLeft, events.PlayerData{PlayerID: id, Name: p.Name})

	if len(s.Players) == 0 {
		r.cancelTimers()
		return nil
	}
	if s.HostID == id {
		s.ReassignHost()
	}

	switch s.Phase {
	case internal.PhaseLobby, internal.PhaseGameEnd:
		r.notify()
		return nil
	}

	if s.GetConnectedCount() < internal.MinPlayersToStart {
		r.endGame()
		return nil
	}

	if wasActor {
		r.cancelTimers()
		// The actor's slot is gone, so the next actor already sits at
		// TurnIndex; step back so advanceTurn lands on it.
		s.TurnIndex--
		r.advanceTurn()
		return nil
	}

	r.checkTurnComplete()
	r.notify()
	return nil
}

// Close stops all timers. The room ignores timer callbacks afterwards.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.cancelTimers()
}

func (r *Room) IsMember(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.GetPlayer(id) != nil
}

func (r *Room) HasConnectedPlayers() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.GetConnectedCount() > 0
}

func (r *Room) Phase() internal.GamePhase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Phase
}

func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.HostID
}

// Players returns detached copies of the roster in join order.
func (r *Room) Players() []internal.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]internal.Player, 0, len(r.state.Players))
	for _, p := range r.state.Players {
		out = append(out, p.ToPublicPlayer())
	}
	return out
}

func (r *Room) Summary() internal.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	return internal.RoomSummary{
		Code:        s.Code,
		Phase:       s.Phase,
		PlayerCount: len(s.Players),
		Joinable:    s.Phase == internal.PhaseLobby && !s.IsFull(),
	}
}

func (r *Room) publish(t events.Type, data any) {
	r.events.Publish(context.Background(), events.Event{
		Type: t,
		Room: r.state.Code,
		At:   time.Now().UTC(),
		Data: data,
	})
}
