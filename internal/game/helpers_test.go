package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
	"github.com/scythe504/charades-backend/internal/utils"
)

// fakeClock fires timers only when Advance moves time past their deadline.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recordingNotifier struct {
	mu     sync.Mutex
	pushes int
	last   map[string]internal.Snapshot
}

func (n *recordingNotifier) RoomChanged(_ string, snapshots map[string]internal.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes++
	n.last = snapshots
}

func (n *recordingNotifier) Pushes() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pushes
}

func (n *recordingNotifier) Last(playerID string) (internal.Snapshot, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	s, ok := n.last[playerID]
	return s, ok
}

var testPhrases = []string{"The Lion King", "Jaws", "Up", "Star Wars", "Frozen", "Inception"}

type fixture struct {
	room     *Room
	clock    *fakeClock
	notifier *recordingNotifier
}

func newFixture(t *testing.T, phrases ...string) *fixture {
	t.Helper()
	if len(phrases) == 0 {
		phrases = testPhrases
	}
	f := &fixture{clock: &fakeClock{}, notifier: &recordingNotifier{}}
	f.room = NewRoom("ABCDE", Options{
		Clock:    f.clock,
		Random:   utils.NewSeededRandom(99),
		Phrases:  phrases,
		Notifier: f.notifier,
		Logger:   zap.NewNop(),
	})
	return f
}

// join adds players p1..pn with names P1..Pn.
func (f *fixture) join(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		require.NoError(t, f.room.AddPlayer(id, fmt.Sprintf("P%d", i)))
		ids = append(ids, id)
	}
	return ids
}

func (f *fixture) actor() string {
	f.room.mu.Lock()
	defer f.room.mu.Unlock()
	return f.room.state.CurrentActorID()
}

func (f *fixture) word() string {
	f.room.mu.Lock()
	defer f.room.mu.Unlock()
	return f.room.state.Word
}

func (f *fixture) score(id string) int {
	f.room.mu.Lock()
	defer f.room.mu.Unlock()
	return f.room.state.GetPlayer(id).Score
}

func (f *fixture) guessers(ids []string) []string {
	actor := f.actor()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != actor {
			out = append(out, id)
		}
	}
	return out
}
