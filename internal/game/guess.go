package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal"
)

// =============================================================================
// CLUES & GUESS HANDLING
// =============================================================================

// UpdateClue replaces the emoji tiles. Only the current actor may do this,
// and only during an active turn; extra tiles are dropped.
func (r *Room) UpdateClue(playerID string, clues []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	if s.Phase != internal.PhaseTurnActive {
		return ErrWrongPhase
	}
	if playerID != s.CurrentActorID() {
		return ErrNotActor
	}

	if len(clues) > internal.MaxClueTiles {
		clues = clues[:internal.MaxClueTiles]
	}
	s.Clues = append(make([]string, 0, len(clues)), clues...)
	r.notify()
	return nil
}

// SubmitGuess checks a guess against the secret. A correct guess scores by
// arrival rank and is announced as a system message; a wrong one is logged
// verbatim. Either way every guesser sees it.
func (r *Room) SubmitGuess(playerID, text string) (internal.GuessMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	if s.Phase != internal.PhaseTurnActive {
		return internal.GuessMessage{}, ErrWrongPhase
	}
	player := s.GetPlayer(playerID)
	switch {
	case player == nil:
		return internal.GuessMessage{}, ErrPlayerNotFound
	case playerID == s.CurrentActorID():
		return internal.GuessMessage{}, ErrActorCannotGuess
	case s.HasGuessedCorrectly(playerID):
		return internal.GuessMessage{}, ErrAlreadyGuessed
	}

	if !AnswersMatch(text, s.Word) {
		msg := internal.GuessMessage{PlayerName: player.Name, Text: text}
		s.Guesses = append(s.Guesses, msg)
		r.notify()
		return msg, nil
	}

	rank := len(s.CorrectGuessers)
	points := GuesserPoints(rank)
	player.AddPoints(points)
	s.CorrectGuessers = append(s.CorrectGuessers, playerID)

	msg := internal.GuessMessage{
		PlayerName: player.Name,
		Text:       fmt.Sprintf("%s guessed correctly! (+%d)", player.Name, points),
		Correct:    true,
		System:     true,
	}
	s.Guesses = append(s.Guesses, msg)
	r.log.Debug("correct guess",
		zap.String("player", playerID),
		zap.Int("rank", rank),
		zap.Int("points", points))

	r.checkTurnComplete()
	if s.Phase == internal.PhaseTurnActive {
		// endTurn already pushed a snapshot otherwise.
		r.notify()
	}
	return msg, nil
}
