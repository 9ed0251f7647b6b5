// internal/game/engine.go
//
// Core game engine for a single category puzzle attempt.
// Responsibilities:
//   - Start (or restart) a session against a puzzle from the repository.
//   - Validate and apply guesses, matching against accepted answers.
//   - Reveal one more clue after each wrong guess.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Sessions are plain values owned by the caller; there is no package state.
//   - Guesses after the session has finished are ignored, not rejected.
package game

import (
	"strings"

	"github.com/robalobadob/clues/internal/puzzles"
)

// Start creates a session on puzzleID.
// Returns an error wrapping puzzles.ErrNotFound if the id is unknown.
func Start(src Puzzles, puzzleID int) (*Session, error) {
	s := &Session{src: src}
	if err := s.Start(puzzleID); err != nil {
		return nil, err
	}
	return s, nil
}

// Start resets the session onto puzzleID with one clue revealed and no guesses.
// On error the session is left untouched.
func (s *Session) Start(puzzleID int) error {
	if s.src == nil {
		return ErrNoSource
	}
	p, err := s.src.GetByID(puzzleID)
	if err != nil {
		return err
	}
	s.puzzle = p
	s.puzzleID = p.ID
	s.revealed = 1
	s.guesses = []string{}
	s.status = StatusPlaying
	return nil
}

// SubmitGuess applies a raw guess and reports what happened.
//
// Rules:
//   - Finished session → Outcome{Ignored: true}, nil.
//   - Empty after normalization → ErrEmptyGuess, nothing recorded.
//   - Otherwise the raw guess is recorded, then:
//     match → won; fifth guess without match → lost; else reveal next clue.
func (s *Session) SubmitGuess(raw string) (Outcome, error) {
	if s.status != StatusPlaying || s.puzzle == nil {
		return Outcome{Ignored: true, Status: s.status, RevealedClues: s.revealed, GuessCount: len(s.guesses)}, nil
	}
	guess := Normalize(raw)
	if guess == "" {
		return Outcome{}, ErrEmptyGuess
	}

	s.guesses = append(s.guesses, raw)

	switch {
	case s.accepts(guess):
		s.status = StatusWon
	case len(s.guesses) >= MaxGuesses:
		s.status = StatusLost
	case s.revealed < puzzles.ClueCount:
		s.revealed++
	}

	out := Outcome{
		Won:           s.status == StatusWon,
		Terminal:      s.status.Terminal(),
		Status:        s.status,
		RevealedClues: s.revealed,
		GuessCount:    len(s.guesses),
	}
	if out.Terminal {
		out.Category = s.puzzle.Category
	}
	return out, nil
}

// accepts reports whether a normalized guess equals any normalized accepted answer.
func (s *Session) accepts(guess string) bool {
	for _, a := range s.puzzle.AcceptedAnswers {
		if Normalize(a) == guess {
			return true
		}
	}
	return false
}

// RevealedClues returns a copy of the clues shown so far, in order.
func (s *Session) RevealedClues() []string {
	if s.puzzle == nil {
		return nil
	}
	n := min(s.revealed, len(s.puzzle.Clues))
	return append([]string(nil), s.puzzle.Clues[:n]...)
}

// NextPuzzleID returns the id after the current one, wrapping to the first
// puzzle when the current one is the last.
func (s *Session) NextPuzzleID() int {
	if s.src == nil {
		return 0
	}
	if _, err := s.src.GetByID(s.puzzleID + 1); err == nil {
		return s.puzzleID + 1
	}
	return s.src.FirstID()
}

// GuessesLeft reports how many guesses remain before the session is lost.
func (s *Session) GuessesLeft() int {
	if s.status.Terminal() {
		return 0
	}
	return MaxGuesses - len(s.guesses)
}

// PuzzleID returns the current puzzle id.
func (s *Session) PuzzleID() int { return s.puzzleID }

// Revealed returns how many clues are shown.
func (s *Session) Revealed() int { return s.revealed }

// Guesses returns a copy of the raw guesses in submission order.
func (s *Session) Guesses() []string { return append([]string{}, s.guesses...) }

// GuessCount returns the number of recorded guesses.
func (s *Session) GuessCount() int { return len(s.guesses) }

// Status returns the session status.
func (s *Session) Status() Status { return s.status }

// Category returns the answer of the current puzzle.
func (s *Session) Category() string {
	if s.puzzle == nil {
		return ""
	}
	return s.puzzle.Category
}

// Puzzle returns the current puzzle record.
func (s *Session) Puzzle() *puzzles.Puzzle { return s.puzzle }

// Normalize lowercases s and trims leading and trailing whitespace.
// Internal spacing and punctuation are kept as-is.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
