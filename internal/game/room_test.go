package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
)

func TestAddPlayer(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.room.AddPlayer("p1", "Ann"))
	assert.Equal(t, "p1", f.room.HostID(), "first player hosts")

	assert.ErrorIs(t, f.room.AddPlayer("p1", "Other"), ErrAlreadyInRoom)
	assert.ErrorIs(t, f.room.AddPlayer("p2", "ANN"), ErrNameTaken)

	require.NoError(t, f.room.AddPlayer("p2", "Bob"))
	assert.Equal(t, "p1", f.room.HostID())

	snap, ok := f.notifier.Last("p2")
	require.True(t, ok)
	assert.Len(t, snap.Players, 2)
	assert.Equal(t, internal.PhaseLobby, snap.Phase)
}

func TestAddPlayerCapacity(t *testing.T) {
	f := newFixture(t)
	f.join(t, internal.MaxPlayersPerRoom)
	assert.ErrorIs(t, f.room.AddPlayer("late", "Late"), ErrRoomFull)
	assert.False(t, f.room.Summary().Joinable)
}

func TestAddPlayerOnlyInLobby(t *testing.T) {
	f := newFixture(t)
	f.join(t, 2)
	require.NoError(t, f.room.StartGame())
	assert.ErrorIs(t, f.room.AddPlayer("p9", "Nine"), ErrWrongPhase)
}

func TestStartGamePreconditions(t *testing.T) {
	f := newFixture(t)
	f.join(t, 1)
	assert.ErrorIs(t, f.room.StartGame(), ErrNotEnoughPlayers)
	assert.Equal(t, internal.PhaseLobby, f.room.Phase())

	require.NoError(t, f.room.AddPlayer("p2", "P2"))
	assert.ErrorIs(t, f.room.HostStartGame("p2"), ErrNotHost)
	require.NoError(t, f.room.HostStartGame("p1"))
	assert.Equal(t, internal.PhaseTurnActive, f.room.Phase())
	assert.ErrorIs(t, f.room.StartGame(), ErrWrongPhase)
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t)
	f.join(t, 2)

	assert.ErrorIs(t, f.room.UpdateSettings("p2", 2, 60), ErrNotHost)
	assert.ErrorIs(t, f.room.UpdateSettings("p1", 4, 0), ErrInvalidSettings)
	assert.ErrorIs(t, f.room.UpdateSettings("p1", 0, 45), ErrInvalidSettings)

	require.NoError(t, f.room.UpdateSettings("p1", 3, 0))
	assert.Equal(t, internal.Settings{RoundsPerPlayer: 3, TurnDuration: 90}, f.room.Settings())
	require.NoError(t, f.room.UpdateSettings("p1", 0, 120))
	assert.Equal(t, internal.Settings{RoundsPerPlayer: 3, TurnDuration: 120}, f.room.Settings())

	require.NoError(t, f.room.StartGame())
	assert.ErrorIs(t, f.room.UpdateSettings("p1", 1, 60), ErrWrongPhase)
}

func TestHostLeavesLobby(t *testing.T) {
	f := newFixture(t)
	f.join(t, 3)

	require.NoError(t, f.room.RemovePlayer("p1"))
	assert.Equal(t, "p2", f.room.HostID())
	assert.Len(t, f.room.Players(), 2)
	assert.ErrorIs(t, f.room.RemovePlayer("p1"), ErrPlayerNotFound)
}

func TestRemoveLastPlayer(t *testing.T) {
	f := newFixture(t)
	f.join(t, 1)
	require.NoError(t, f.room.DisconnectPlayer("p1"))
	assert.Empty(t, f.room.Players())
	assert.False(t, f.room.HasConnectedPlayers())
}

func TestKick(t *testing.T) {
	f := newFixture(t)
	f.join(t, 3)

	assert.ErrorIs(t, f.room.Kick("p2", "p3"), ErrNotHost)
	assert.ErrorIs(t, f.room.Kick("p1", "p1"), ErrCannotKickSelf)
	assert.ErrorIs(t, f.room.Kick("p1", "nobody"), ErrPlayerNotFound)

	require.NoError(t, f.room.Kick("p1", "p3"))
	assert.False(t, f.room.IsMember("p3"))
	snap, _ := f.notifier.Last("p1")
	assert.Len(t, snap.Players, 2)
}

func TestUpdateClue(t *testing.T) {
	f := newFixture(t)
	ids := f.join(t, 3)
	assert.ErrorIs(t, f.room.UpdateClue("p1", []string{"🦁"}), ErrWrongPhase)

	require.NoError(t, f.room.StartGame())
	actor := f.actor()
	guesser := f.guessers(ids)[0]

	assert.ErrorIs(t, f.room.UpdateClue(guesser, []string{"🦁"}), ErrNotActor)

	tiles := make([]string, 0, 15)
	for i := range 15 {
		tiles = append(tiles, fmt.Sprintf("e%d", i))
	}
	require.NoError(t, f.room.UpdateClue(actor, tiles))

	snap, _ := f.notifier.Last(guesser)
	assert.Len(t, snap.Emojis, internal.MaxClueTiles)
	assert.Equal(t, "e0", snap.Emojis[0])

	tiles[0] = "changed"
	assert.Equal(t, "e0", f.room.Snapshot(guesser).Emojis[0], "the room keeps its own copy")
}

func TestSubmitGuessRules(t *testing.T) {
	f := newFixture(t)
	ids := f.join(t, 4)
	_, err := f.room.SubmitGuess("p1", "anything")
	assert.ErrorIs(t, err, ErrWrongPhase)

	require.NoError(t, f.room.StartGame())
	actor := f.actor()
	g := f.guessers(ids)

	_, err = f.room.SubmitGuess(actor, f.word())
	assert.ErrorIs(t, err, ErrActorCannotGuess)
	_, err = f.room.SubmitGuess("stranger", f.word())
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	msg, err := f.room.SubmitGuess(g[0], f.word())
	require.NoError(t, err)
	assert.True(t, msg.Correct)
	assert.True(t, msg.System)
	assert.Equal(t, "P"+g[0][1:]+" guessed correctly! (+10)", msg.Text)

	_, err = f.room.SubmitGuess(g[0], f.word())
	assert.ErrorIs(t, err, ErrAlreadyGuessed)
	assert.Equal(t, 10, f.score(g[0]), "no double award")
}

func TestSnapshotFiltering(t *testing.T) {
	f := newFixture(t)
	ids := f.join(t, 3)
	require.NoError(t, f.room.StartGame())

	actor := f.actor()
	g := f.guessers(ids)
	_, err := f.room.SubmitGuess(g[0], "not it")
	require.NoError(t, err)

	actorView := f.room.Snapshot(actor)
	guesserView := f.room.Snapshot(g[1])

	assert.Equal(t, f.word(), actorView.CurrentWord)
	assert.Empty(t, actorView.Guesses, "actor does not see guesses during the turn")
	assert.Empty(t, guesserView.CurrentWord)
	require.Len(t, guesserView.Guesses, 1)
	assert.Equal(t, "not it", guesserView.Guesses[0].Text)
	require.NotNil(t, guesserView.Hint)
	assert.Zero(t, guesserView.Hint.Revealed)
	assert.Nil(t, guesserView.FinalStandings)
	assert.Equal(t, 1, guesserView.CurrentRound)
	assert.Equal(t, actor, guesserView.CurrentActorID)

	// After the turn the actor sees the log again.
	_, err = f.room.SubmitGuess(g[0], f.word())
	require.NoError(t, err)
	_, err = f.room.SubmitGuess(g[1], f.word())
	require.NoError(t, err)
	require.Equal(t, internal.PhaseTurnEnd, f.room.Phase())
	assert.Len(t, f.room.Snapshot(actor).Guesses, 3)
	assert.Nil(t, f.room.Snapshot(actor).Hint)
}

func TestPanickingNotifierDoesNotFailMutation(t *testing.T) {
	room := NewRoom("ABCDE", Options{
		Clock:   &fakeClock{},
		Phrases: testPhrases,
		Logger:  zap.NewNop(),
		Notifier: NotifierFunc(func(string, map[string]internal.Snapshot) {
			panic("transport exploded")
		}),
	})
	require.NoError(t, room.AddPlayer("p1", "Ann"))
	assert.True(t, room.IsMember("p1"))
}
