package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal/events"
	"github.com/scythe504/charades-backend/internal/utils"
)

const DefaultMaxRooms = 500

// Stats is the server-wide room and player count.
type Stats struct {
	Rooms         int `json:"rooms"`
	Players       int `json:"players"`
	OnlinePlayers int `json:"online_players"`
}

// Registry maps room codes to rooms and players to the room they are in.
// Lock order is registry, then room, then whatever the room notifies.
type Registry struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	playerRooms map[string]string
	connected   map[string]struct{}

	maxRooms int
	opts     Options
	log      *zap.Logger
}

func NewRegistry(maxRooms int, opts Options) *Registry {
	if maxRooms <= 0 {
		maxRooms = DefaultMaxRooms
	}
	opts = opts.withDefaults()
	return &Registry{
		rooms:       make(map[string]*Room),
		playerRooms: make(map[string]string),
		connected:   make(map[string]struct{}),
		maxRooms:    maxRooms,
		opts:        opts,
		log:         opts.Logger.Named("registry"),
	}
}

// Connect records an open connection for the online count.
func (g *Registry) Connect(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connected[playerID] = struct{}{}
}

// CreateRoom opens a room with a fresh code and the caller as host.
func (g *Registry) CreateRoom(playerID, playerName string) (string, error) {
	name, ok := utils.ValidatePlayerName(playerName)
	if !ok {
		return "", ErrInvalidName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.rooms) >= g.maxRooms {
		g.log.Warn("room limit reached", zap.Int("rooms", len(g.rooms)))
		return "", ErrServerFull
	}
	g.leaveLocked(playerID)

	code := g.newCodeLocked()
	room := NewRoom(code, g.opts)
	if err := room.AddPlayer(playerID, name); err != nil {
		room.Close()
		return "", fmt.Errorf("add host to %s: %w", code, err)
	}

	g.rooms[code] = room
	g.playerRooms[playerID] = code
	g.log.Info("room created", zap.String("room", code), zap.String("host", playerID))
	g.publish(events.RoomCreated, code, events.PlayerData{PlayerID: playerID, Name: name})
	return code, nil
}

// JoinRoom adds the caller to an existing lobby.
func (g *Registry) JoinRoom(rawCode, playerID, playerName string) (string, error) {
	name, ok := utils.ValidatePlayerName(playerName)
	if !ok {
		return "", ErrInvalidName
	}
	code, ok := utils.ValidateRoomCode(rawCode)
	if !ok {
		return "", ErrInvalidRoomCode
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[code]
	if !ok {
		return "", ErrRoomNotFound
	}
	if current, in := g.playerRooms[playerID]; in && current == code {
		return "", ErrAlreadyInRoom
	}
	// Validate against the target first so a rejected join leaves the
	// player's current room untouched.
	if err := room.CanAdd(playerID, name); err != nil {
		return "", joinError(err)
	}

	g.leaveLocked(playerID)
	if err := room.AddPlayer(playerID, name); err != nil {
		return "", joinError(err)
	}
	g.playerRooms[playerID] = code
	return code, nil
}

func joinError(err error) error {
	if errors.Is(err, ErrWrongPhase) {
		return ErrGameInProgress
	}
	return err
}

// Leave removes the player from their room voluntarily.
func (g *Registry) Leave(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.playerRooms[playerID]; !ok {
		return ErrNotInRoom
	}
	g.leaveLocked(playerID)
	return nil
}

// Disconnect is called when the connection of playerID is gone.
func (g *Registry) Disconnect(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.connected, playerID)
	code, ok := g.playerRooms[playerID]
	if !ok {
		return
	}
	delete(g.playerRooms, playerID)

	room := g.rooms[code]
	if room == nil {
		return
	}
	if err := room.DisconnectPlayer(playerID); err != nil {
		g.log.Debug("disconnect", zap.String("room", code), zap.String("player", playerID), zap.Error(err))
	}
	g.cleanupLocked(code, room)
}

// Kick removes targetID from the host's room.
func (g *Registry) Kick(hostID, targetID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	code, ok := g.playerRooms[hostID]
	if !ok {
		return ErrNotInRoom
	}
	room := g.rooms[code]
	if room == nil {
		return ErrRoomNotFound
	}
	if err := room.Kick(hostID, targetID); err != nil {
		return err
	}
	delete(g.playerRooms, targetID)
	g.log.Info("player kicked", zap.String("room", code), zap.String("player", targetID))
	g.cleanupLocked(code, room)
	return nil
}

func (g *Registry) leaveLocked(playerID string) {
	code, ok := g.playerRooms[playerID]
	if !ok {
		return
	}
	delete(g.playerRooms, playerID)
	room := g.rooms[code]
	if room == nil {
		return
	}
	if err := room.RemovePlayer(playerID); err != nil {
		g.log.Debug("leave", zap.String("room", code), zap.String("player", playerID), zap.Error(err))
	}
	g.cleanupLocked(code, room)
}

// cleanupLocked destroys a room once nobody connected is left in it.
func (g *Registry) cleanupLocked(code string, room *Room) {
	if room.HasConnectedPlayers() {
		return
	}
	room.Close()
	delete(g.rooms, code)
	for pid, c := range g.playerRooms {
		if c == code {
			delete(g.playerRooms, pid)
		}
	}
	g.log.Info("room deleted", zap.String("room", code))
	g.publish(events.RoomClosed, code, nil)
}

func (g *Registry) newCodeLocked() string {
	for {
		code := utils.GenerateRoomCode(g.opts.Random, utils.RoomCodeLength)
		if _, taken := g.rooms[code]; !taken {
			return code
		}
	}
}

// RoomFor returns the room playerID is currently in.
func (g *Registry) RoomFor(playerID string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	code, ok := g.playerRooms[playerID]
	if !ok {
		return nil, false
	}
	room, ok := g.rooms[code]
	return room, ok
}

func (g *Registry) Room(rawCode string) (*Room, bool) {
	code, ok := utils.ValidateRoomCode(rawCode)
	if !ok {
		return nil, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[code]
	return room, ok
}

func (g *Registry) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Stats{
		Rooms:         len(g.rooms),
		Players:       len(g.playerRooms),
		OnlinePlayers: len(g.connected),
	}
}

// Shutdown closes every room; used on server stop.
func (g *Registry) Shutdown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for code, room := range g.rooms {
		room.Close()
		delete(g.rooms, code)
	}
	clear(g.playerRooms)
}

func (g *Registry) publish(t events.Type, code string, data any) {
	g.opts.Events.Publish(context.Background(), events.Event{
		Type: t,
		Room: code,
		At:   time.Now().UTC(),
		Data: data,
	})
}
