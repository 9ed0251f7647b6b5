// internal/game/types.go
//
// Core type definitions for the category game engine.
// Defines:
//   - Status:  coarse session state (playing/won/lost).
//   - Outcome: what a single SubmitGuess did, for the caller to render.
//   - Session: state for a single in-progress or finished puzzle attempt.

package game

import (
	"errors"

	"github.com/robalobadob/clues/internal/puzzles"
)

// MaxGuesses is the number of guesses a player gets per puzzle.
const MaxGuesses = 5

// ErrEmptyGuess is returned when a guess normalizes to the empty string.
var ErrEmptyGuess = errors.New("please enter a guess")

// ErrNoSource is returned when Start is called on a zero Session.
var ErrNoSource = errors.New("game: session has no puzzle source")

// Status represents where a session is in its lifecycle.
// Possible values:
//   - "playing": guesses are accepted.
//   - "won":     a guess matched an accepted answer (terminal).
//   - "lost":    all guesses used without a match (terminal).
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Puzzles is the read-only view of the puzzle repository a session needs.
type Puzzles interface {
	GetByID(id int) (*puzzles.Puzzle, error)
	FirstID() int
}

// Outcome describes the result of one SubmitGuess call.
type Outcome struct {
	Ignored       bool   `json:"ignored,omitempty"`  // session was already finished
	Won           bool   `json:"won"`                // guess matched
	Terminal      bool   `json:"terminal"`           // session ended with this guess
	Status        Status `json:"status"`             // status after the guess
	Category      string `json:"category,omitempty"` // only set once terminal
	RevealedClues int    `json:"revealedClues"`      // clue count after the guess
	GuessCount    int    `json:"guessCount"`         // guesses recorded so far
}

// Session holds the state of one play-through of a puzzle.
// The zero value has no puzzle and ignores guesses; use Start.
type Session struct {
	src      Puzzles
	puzzle   *puzzles.Puzzle
	puzzleID int      // current puzzle id
	revealed int      // clues shown, 1..5
	guesses  []string // raw guesses in submission order
	status   Status
}
