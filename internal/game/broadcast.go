package game

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
)

// =============================================================================
// SNAPSHOTS & BROADCASTING
// =============================================================================

// Notifier receives a fresh snapshot for every room member after each
// observable change. It is called with the room lock held and must not
// block or call back into the room.
type Notifier interface {
	RoomChanged(code string, snapshots map[string]internal.Snapshot)
}

type NotifierFunc func(code string, snapshots map[string]internal.Snapshot)

func (f NotifierFunc) RoomChanged(code string, snapshots map[string]internal.Snapshot) {
	f(code, snapshots)
}

type NopNotifier struct{}

func (NopNotifier) RoomChanged(string, map[string]internal.Snapshot) {}

// Snapshot returns the room as seen by viewerID.
func (r *Room) Snapshot(viewerID string) internal.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Project(r.state, viewerID, r.currentHint())
}

// Project is the per-viewer view of a room. Only the actor sees the secret;
// the actor does not see the guess log while the turn runs; final standings
// exist only after the game ended.
func Project(s *internal.Room, viewerID string, hint *internal.Hint) internal.Snapshot {
	actorID := s.CurrentActorID()
	isActor := viewerID != "" && viewerID == actorID

	players := make([]internal.Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, p.ToPublicPlayer())
	}

	snap := internal.Snapshot{
		Code:            s.Code,
		Phase:           s.Phase,
		Players:         players,
		HostID:          s.HostID,
		Settings:        s.Settings,
		CurrentRound:    s.CurrentRound(),
		TotalRounds:     s.TotalRounds(),
		CurrentActorID:  actorID,
		Emojis:          append([]string{}, s.Clues...),
		TimeRemaining:   s.TimeRemaining,
		Guesses:         append([]internal.GuessMessage{}, s.Guesses...),
		CorrectGuessers: append([]string{}, s.CorrectGuessers...),
	}

	if isActor {
		snap.CurrentWord = s.Word
		if s.Phase == internal.PhaseTurnActive {
			snap.Guesses = []internal.GuessMessage{}
		}
	}
	if s.Phase == internal.PhaseTurnActive && hint != nil {
		h := *hint
		snap.Hint = &h
	}
	if s.TurnResult != nil {
		tr := *s.TurnResult
		tr.Winners = slices.Clone(s.TurnResult.Winners)
		snap.TurnResult = &tr
	}
	if s.Phase == internal.PhaseGameEnd {
		snap.FinalStandings = s.Standings()
	}
	return snap
}

// currentHint renders the hint from the elapsed part of the turn. Caller
// holds r.mu.
func (r *Room) currentHint() *internal.Hint {
	s := r.state
	if s.Phase != internal.PhaseTurnActive || s.Word == "" {
		return nil
	}
	duration := s.Settings.TurnDurationValue()
	elapsed := duration - time.Duration(s.TimeRemaining)*time.Second
	h := RenderHint(s.Word, s.RevealOrder, duration, elapsed)
	return &h
}

// notify pushes per-player snapshots. Caller holds r.mu.
func (r *Room) notify() {
	hint := r.currentHint()
	snapshots := make(map[string]internal.Snapshot, len(r.state.Players))
	for _, p := range r.state.Players {
		snapshots[p.Id] = Project(r.state, p.Id, hint)
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("notifier panicked", zap.Any("panic", rec))
		}
	}()
	r.notifier.RoomChanged(r.state.Code, snapshots)
}
