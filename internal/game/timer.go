package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// Clock schedules the room's countdown and turn-end delay.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

// RealClock schedules callbacks with time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Every timer callback captures the generation it was armed in.
// cancelTimers bumps the generation, so a callback that already fired but
// is still waiting for the room lock finds a mismatch and does nothing.

// cancelTimers stops the countdown and the turn-end delay. Caller holds r.mu.
func (r *Room) cancelTimers() {
	r.timerGen++
	if r.countdown != nil {
		r.countdown.Stop()
		r.countdown = nil
	}
	if r.turnEnd != nil {
		r.turnEnd.Stop()
		r.turnEnd = nil
	}
}

// startCountdown arms the next one-second tick. Caller holds r.mu.
func (r *Room) startCountdown() {
	gen := r.timerGen
	r.countdown = r.clock.AfterFunc(internal.CountdownInterval, func() {
		r.onCountdownTick(gen)
	})
}

func (r *Room) onCountdownTick(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || gen != r.timerGen || r.state.Phase != internal.PhaseTurnActive {
		return
	}

	r.state.TimeRemaining--
	if r.state.TimeRemaining <= 0 {
		r.state.TimeRemaining = 0
		r.log.Debug("turn timed out", zap.String("actor", r.state.CurrentActorID()))
		r.endTurn()
		return
	}

	r.notify()
	r.startCountdown()
}

// scheduleTurnAdvance arms the pause between TURN_END and the next turn.
// Caller holds r.mu.
func (r *Room) scheduleTurnAdvance() {
	gen := r.timerGen
	r.turnEnd = r.clock.AfterFunc(internal.TurnEndDelay, func() {
		r.onTurnEndDelay(gen)
	})
}

func (r *Room) onTurnEndDelay(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || gen != r.timerGen || r.state.Phase != internal.PhaseTurnEnd {
		return
	}
	r.turnEnd = nil
	r.advanceTurn()
}
