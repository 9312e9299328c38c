package game

import (
	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
	"github.com/scythe504/charades-backend/internal/events"
	"github.com/scythe504/charades-backend/internal/utils"
)

// =============================================================================
// GAME FLOW - TURNS
// =============================================================================

// AdvanceTurn moves to the next actor, ending the game once the order is
// used up. It does nothing outside of a running game.
func (r *Room) AdvanceTurn() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanceTurn()
}

func (r *Room) advanceTurn() {
	switch r.state.Phase {
	case internal.PhaseGameEnd, internal.PhaseLobby:
		return
	}
	r.cancelTimers()
	r.state.TurnIndex++
	r.startTurn()
}

// startTurn skips order entries whose player is gone, picks a phrase and
// opens the turn.
func (r *Room) startTurn() {
	s := r.state
	for s.TurnIndex < len(s.TurnOrder) {
		if p := s.GetPlayer(s.TurnOrder[s.TurnIndex]); p != nil && p.Connected {
			break
		}
		s.TurnIndex++
	}
	if s.TurnIndex >= len(s.TurnOrder) {
		r.endGame()
		return
	}

	word, err := r.pickWord()
	if err != nil {
		r.log.Error("cannot start turn", zap.Error(err))
		r.endGame()
		return
	}

	s.ResetTurnState()
	s.Word = word
	s.RevealOrder = NewRevealOrder(r.random, word)
	s.TimeRemaining = s.Settings.TurnDuration
	s.Phase = internal.PhaseTurnActive

	r.log.Debug("turn started",
		zap.Int("turn", s.TurnIndex),
		zap.Int("round", s.CurrentRound()),
		zap.String("actor", s.CurrentActorID()))

	r.notify()
	r.startCountdown()
}

// pickWord draws an unused phrase, recycling the used set once every phrase
// has been played.
func (r *Room) pickWord() (string, error) {
	s := r.state
	for attempt := 0; attempt < 2; attempt++ {
		available := make([]string, 0, len(r.phrases))
		for _, w := range r.phrases {
			if _, used := s.UsedWords[w]; !used {
				available = append(available, w)
			}
		}
		if word, ok := utils.PickOne(r.random, available); ok {
			s.UsedWords[word] = struct{}{}
			return word, nil
		}
		clear(s.UsedWords)
	}
	return "", ErrNoPhrases
}

// checkTurnComplete ends the active turn once every connected guesser has
// answered or the correct-guesser cap is reached.
func (r *Room) checkTurnComplete() {
	s := r.state
	if s.Phase != internal.PhaseTurnActive {
		return
	}
	if s.HasEveryoneGuessed() || len(s.CorrectGuessers) >= internal.MaxCorrectBeforeEnd {
		r.endTurn()
	}
}

func (r *Room) endTurn() {
	r.cancelTimers()

	s := r.state
	actorPoints := ActorPoints(len(s.CorrectGuessers))
	if actor := s.CurrentActor(); actor != nil {
		actor.AddPoints(actorPoints)
	}
	s.TurnResult = CalculateTurnResult(s, actorPoints)
	s.Phase = internal.PhaseTurnEnd

	r.log.Debug("turn ended",
		zap.Int("turn", s.TurnIndex),
		zap.Int("correct", len(s.CorrectGuessers)),
		zap.Int("time_remaining", s.TimeRemaining))
	r.publish(events.TurnEnded, *s.TurnResult)

	r.notify()
	r.scheduleTurnAdvance()
}

func (r *Room) endGame() {
	r.cancelTimers()

	s := r.state
	s.Phase = internal.PhaseGameEnd

	standings := s.Standings()
	r.log.Info("game ended", zap.Int("turns_played", min(s.TurnIndex+1, len(s.TurnOrder))))
	r.publish(events.GameEnded, events.GameSummary{
		RoundsPerPlayer: s.Settings.RoundsPerPlayer,
		TurnDuration:    s.Settings.TurnDuration,
		TurnsPlayed:     min(s.TurnIndex+1, len(s.TurnOrder)),
		Standings:       standings,
	})

	r.notify()
}
