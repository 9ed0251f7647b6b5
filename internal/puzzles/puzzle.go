// internal/puzzles/puzzle.go
//
// Core type definitions for the puzzle dataset.
// Defines:
//   - Puzzle:    one immutable record (category, five clues, accepted answers).
//   - DataError: the dataset could not be read or failed validation.
//   - ErrNotFound: lookup of an id that is not in the repository.

package puzzles

import (
	"errors"
	"fmt"
)

// ClueCount is the number of clues every puzzle carries.
const ClueCount = 5

// ErrNotFound is returned (wrapped) when a puzzle id is not loaded.
var ErrNotFound = errors.New("puzzle not found")

// Puzzle is a single category puzzle. Treat as read-only after Load.
type Puzzle struct {
	ID              int      `json:"id"`
	Category        string   `json:"category"`
	Clues           []string `json:"clues"`
	AcceptedAnswers []string `json:"acceptedAnswers"`
}

// DataError reports a malformed or unreachable dataset.
type DataError struct {
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("puzzles: %s: %v", e.Reason, e.Err)
	}
	return "puzzles: " + e.Reason
}

func (e *DataError) Unwrap() error { return e.Err }

func dataErrorf(format string, args ...any) *DataError {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}
