package game

import (
	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
	"github.com/scythe504/charades-backend/internal/events"
)

// =============================================================================
// GAME FLOW - LOBBY & INITIALIZATION
// =============================================================================

// StartGame builds the turn order and starts the first turn.
func (r *Room) StartGame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startGame()
}

// HostStartGame is StartGame restricted to the room's host.
func (r *Room) HostStartGame(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.IsHost(playerID) {
		return ErrNotHost
	}
	return r.startGame()
}

func (r *Room) startGame() error {
	s := r.state
	if s.Phase != internal.PhaseLobby {
		return ErrWrongPhase
	}
	if len(s.Players) < internal.MinPlayersToStart {
		r.log.Debug("start rejected: not enough players", zap.Int("players", len(s.Players)))
		return ErrNotEnoughPlayers
	}

	ids := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		ids = append(ids, p.Id)
	}
	s.TurnOrder = BuildTurnOrder(r.random, ids, s.Settings.RoundsPerPlayer)
	s.TurnIndex = 0

	r.log.Info("game started",
		zap.Int("players", len(ids)),
		zap.Int("rounds", s.Settings.RoundsPerPlayer),
		zap.Int("turn_duration", s.Settings.TurnDuration),
		zap.Strings("turn_order", s.TurnOrder))
	r.publish(events.GameStarted, events.GameStartedData{
		Players:         len(ids),
		RoundsPerPlayer: s.Settings.RoundsPerPlayer,
		TurnDuration:    s.Settings.TurnDuration,
		Turns:           len(s.TurnOrder),
	})

	r.startTurn()
	return nil
}

// UpdateSettings changes round count and turn length while in the lobby.
// A zero value leaves that setting unchanged.
func (r *Room) UpdateSettings(playerID string, roundsPerPlayer, turnDuration int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	switch {
	case !s.IsHost(playerID):
		return ErrNotHost
	case s.Phase != internal.PhaseLobby:
		return ErrWrongPhase
	case roundsPerPlayer != 0 && !internal.ValidRoundsPerPlayer(roundsPerPlayer):
		return ErrInvalidSettings
	case turnDuration != 0 && !internal.ValidTurnDuration(turnDuration):
		return ErrInvalidSettings
	}

	if roundsPerPlayer != 0 {
		s.Settings.RoundsPerPlayer = roundsPerPlayer
	}
	if turnDuration != 0 {
		s.Settings.TurnDuration = turnDuration
	}
	r.notify()
	return nil
}

func (r *Room) Settings() internal.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Settings
}

// ReturnToLobby resets the room for a new game from any phase.
func (r *Room) ReturnToLobby() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.returnToLobby()
}

// HostReturnToLobby is ReturnToLobby restricted to the room's host.
func (r *Room) HostReturnToLobby(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.IsHost(playerID) {
		return ErrNotHost
	}
	r.returnToLobby()
	return nil
}

func (r *Room) returnToLobby() {
	r.cancelTimers()
	r.state.ResetToLobby()
	r.log.Info("returned to lobby")
	r.publish(events.ReturnedToLobby, nil)
	r.notify()
}
