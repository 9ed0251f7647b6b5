// internal/puzzles/repository.go
//
// Read-only puzzle repository.
// Responsibilities:
//   - Parse a JSON dataset into Puzzle records and validate each one.
//   - Index records by id for O(1) lookup.
//   - Expose ordering helpers (IDs, FirstID) used for "next puzzle" and daily picks.
//
// Accepted document shapes:
//   [ {puzzle}, ... ]              bare array
//   { "puzzles": [ {puzzle}, ... ] } wrapped array
//
// A Repository is populated once and never mutated afterwards, so it is safe
// to share between goroutines without locking.

package puzzles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Repository holds the loaded puzzles keyed by id.
type Repository struct {
	byID map[int]*Puzzle
	ids  []int // ascending
}

// document is the wrapped dataset shape.
type document struct {
	Puzzles []Puzzle `json:"puzzles"`
}

// Load parses and validates a dataset. It never returns an empty repository:
// a document without puzzles is a *DataError.
func Load(data []byte) (*Repository, error) {
	list, err := decode(data)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, dataErrorf("dataset contains no puzzles")
	}

	repo := &Repository{byID: make(map[int]*Puzzle, len(list))}
	for i := range list {
		p := list[i]
		if err := validate(&p, i); err != nil {
			return nil, err
		}
		if _, dup := repo.byID[p.ID]; dup {
			return nil, dataErrorf("record %d: duplicate id %d", i, p.ID)
		}
		ensureCategoryAccepted(&p)
		repo.byID[p.ID] = &p
		repo.ids = append(repo.ids, p.ID)
	}
	sort.Ints(repo.ids)
	return repo, nil
}

// decode accepts either a bare array or an object with a "puzzles" field.
func decode(data []byte) ([]Puzzle, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, dataErrorf("empty dataset")
	}

	if trimmed[0] == '[' {
		var list []Puzzle
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, &DataError{Reason: "malformed dataset", Err: err}
		}
		return list, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, &DataError{Reason: "malformed dataset", Err: err}
	}
	return doc.Puzzles, nil
}

// validate enforces the required fields of a single record.
func validate(p *Puzzle, idx int) error {
	if p.ID <= 0 {
		return dataErrorf("record %d: id must be a positive integer", idx)
	}
	if strings.TrimSpace(p.Category) == "" {
		return dataErrorf("puzzle %d: missing category", p.ID)
	}
	if len(p.Clues) != ClueCount {
		return dataErrorf("puzzle %d: want %d clues, got %d", p.ID, ClueCount, len(p.Clues))
	}
	for i, c := range p.Clues {
		if strings.TrimSpace(c) == "" {
			return dataErrorf("puzzle %d: clue %d is empty", p.ID, i+1)
		}
	}
	if len(p.AcceptedAnswers) == 0 {
		return dataErrorf("puzzle %d: acceptedAnswers is empty", p.ID)
	}
	return nil
}

// ensureCategoryAccepted appends the category to the accepted answers when no
// entry already matches it case-insensitively.
func ensureCategoryAccepted(p *Puzzle) {
	want := strings.ToLower(strings.TrimSpace(p.Category))
	for _, a := range p.AcceptedAnswers {
		if strings.ToLower(strings.TrimSpace(a)) == want {
			return
		}
	}
	p.AcceptedAnswers = append(append([]string{}, p.AcceptedAnswers...), p.Category)
}

// GetByID returns the puzzle with the given id, or an error wrapping ErrNotFound.
func (r *Repository) GetByID(id int) (*Puzzle, error) {
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("puzzle %d: %w", id, ErrNotFound)
}

// Count returns the number of loaded puzzles.
func (r *Repository) Count() int { return len(r.ids) }

// IDs returns all puzzle ids in ascending order.
func (r *Repository) IDs() []int {
	return append([]int(nil), r.ids...)
}

// FirstID returns the smallest loaded id.
func (r *Repository) FirstID() int {
	if len(r.ids) == 0 {
		return 0
	}
	return r.ids[0]
}
