package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/robalobadob/clues/internal/puzzles"
)

const testDataset = `[
  {"id": 1, "category": "fruits", "clues": ["c1","c2","c3","c4","c5"], "acceptedAnswers": ["fruits","fruit"]},
  {"id": 2, "category": "Chess pieces", "clues": ["Rook","Bishop","Knight","Queen","Pawn"], "acceptedAnswers": ["chess pieces","chessmen"]},
  {"id": 3, "category": "Planets", "clues": ["Saturn","Mars","Neptune","Venus","Jupiter"], "acceptedAnswers": ["planets"]}
]`

func newRepo(t *testing.T) *puzzles.Repository {
	t.Helper()
	repo, err := puzzles.Load([]byte(testDataset))
	if err != nil {
		t.Fatalf("puzzles.Load() error = %v", err)
	}
	return repo
}

func newSession(t *testing.T, id int) *Session {
	t.Helper()
	s, err := Start(newRepo(t), id)
	if err != nil {
		t.Fatalf("Start(%d) error = %v", id, err)
	}
	return s
}

func TestStartInitialState(t *testing.T) {
	s := newSession(t, 1)
	if s.PuzzleID() != 1 || s.Revealed() != 1 || len(s.Guesses()) != 0 || s.Status() != StatusPlaying {
		t.Fatalf("Start() = %+v", s)
	}
	if got := s.RevealedClues(); !reflect.DeepEqual(got, []string{"c1"}) {
		t.Errorf("RevealedClues() = %v, want [c1]", got)
	}
	if s.GuessesLeft() != MaxGuesses {
		t.Errorf("GuessesLeft() = %d, want %d", s.GuessesLeft(), MaxGuesses)
	}
}

// Scenario A: a case variant of an accepted answer wins on the first guess.
func TestCorrectGuessWins(t *testing.T) {
	s := newSession(t, 1)
	out, err := s.SubmitGuess("Fruit")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if !out.Won || !out.Terminal || out.Status != StatusWon || out.Category != "fruits" {
		t.Errorf("SubmitGuess() = %+v", out)
	}
	if len(s.Guesses()) != 1 || s.Guesses()[0] != "Fruit" {
		t.Errorf("Guesses = %v, want [Fruit]", s.Guesses())
	}
	if s.Revealed() != 1 {
		t.Errorf("Revealed = %d, want 1", s.Revealed())
	}
}

// Scenario B: four wrong guesses reveal every clue; the fifth loses.
func TestFiveWrongGuessesLose(t *testing.T) {
	s := newSession(t, 1)
	for i := 1; i <= 4; i++ {
		out, err := s.SubmitGuess("vegetables")
		if err != nil {
			t.Fatalf("guess %d: error = %v", i, err)
		}
		if out.Terminal || out.Won || out.Category != "" {
			t.Fatalf("guess %d: outcome = %+v, want non-terminal", i, out)
		}
		if out.RevealedClues != i+1 || s.Revealed() != i+1 {
			t.Fatalf("guess %d: revealed = %d, want %d", i, s.Revealed(), i+1)
		}
	}
	if got := s.RevealedClues(); !reflect.DeepEqual(got, []string{"c1", "c2", "c3", "c4", "c5"}) {
		t.Errorf("RevealedClues() = %v", got)
	}

	out, err := s.SubmitGuess("vegetables")
	if err != nil {
		t.Fatalf("guess 5: error = %v", err)
	}
	if out.Won || !out.Terminal || out.Status != StatusLost || out.Category != "fruits" {
		t.Errorf("guess 5: outcome = %+v", out)
	}
	if s.Status() != StatusLost || len(s.Guesses()) != 5 || s.Revealed() != 5 {
		t.Errorf("session = %+v", s)
	}
	if s.GuessesLeft() != 0 {
		t.Errorf("GuessesLeft() = %d, want 0", s.GuessesLeft())
	}
}

// Scenario C: a blank guess is rejected without being recorded.
func TestBlankGuessRejected(t *testing.T) {
	s := newSession(t, 1)
	if _, err := s.SubmitGuess("   "); !errors.Is(err, ErrEmptyGuess) {
		t.Fatalf("SubmitGuess(blank) error = %v, want ErrEmptyGuess", err)
	}
	if len(s.Guesses()) != 0 || s.Revealed() != 1 || s.Status() != StatusPlaying {
		t.Fatalf("session mutated by blank guess: %+v", s)
	}
	out, err := s.SubmitGuess("fruits")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if !out.Won || len(s.Guesses()) != 1 {
		t.Errorf("outcome = %+v, guesses = %v", out, s.Guesses())
	}
}

func TestEmptyInputsNeverRecorded(t *testing.T) {
	tests := []string{"", " ", "   ", "\t", "\n\t \r\n"}
	for _, in := range tests {
		s := newSession(t, 1)
		out, err := s.SubmitGuess(in)
		if !errors.Is(err, ErrEmptyGuess) {
			t.Errorf("SubmitGuess(%q) error = %v, want ErrEmptyGuess", in, err)
		}
		if out != (Outcome{}) {
			t.Errorf("SubmitGuess(%q) outcome = %+v, want zero", in, out)
		}
		if len(s.Guesses()) != 0 {
			t.Errorf("SubmitGuess(%q) recorded a guess", in)
		}
	}
}

// Scenario D: unknown id fails and leaves an existing session untouched.
func TestStartUnknownPuzzle(t *testing.T) {
	repo := newRepo(t)
	if s, err := Start(repo, 999); !errors.Is(err, puzzles.ErrNotFound) || s != nil {
		t.Fatalf("Start(999) = %v, %v; want nil, ErrNotFound", s, err)
	}

	s, err := Start(repo, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitGuess("nope"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(999); !errors.Is(err, puzzles.ErrNotFound) {
		t.Fatalf("Start(999) error = %v, want ErrNotFound", err)
	}
	if s.PuzzleID() != 1 || s.Revealed() != 2 || len(s.Guesses()) != 1 {
		t.Errorf("session mutated by failed Start: %+v", s)
	}
}

func TestCaseAndWhitespaceVariantsWin(t *testing.T) {
	tests := []struct {
		name  string
		id    int
		guess string
	}{
		{name: "upper case", id: 1, guess: "FRUITS"},
		{name: "mixed case", id: 1, guess: "fRuIt"},
		{name: "leading tab", id: 1, guess: "\tfruits"},
		{name: "trailing newline", id: 1, guess: "fruit\n"},
		{name: "both sides", id: 1, guess: "  \t Fruits \r\n"},
		{name: "internal space kept", id: 2, guess: " Chess Pieces "},
		{name: "synonym", id: 2, guess: "CHESSMEN"},
		{name: "category added at load", id: 3, guess: "PLANETS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.id)
			out, err := s.SubmitGuess(tt.guess)
			if err != nil {
				t.Fatalf("SubmitGuess(%q) error = %v", tt.guess, err)
			}
			if !out.Won {
				t.Errorf("SubmitGuess(%q) = %+v, want won", tt.guess, out)
			}
		})
	}
}

func TestNearMissesAreWrong(t *testing.T) {
	tests := []struct {
		name  string
		id    int
		guess string
	}{
		{name: "double internal space", id: 2, guess: "chess  pieces"},
		{name: "missing space", id: 2, guess: "chesspieces"},
		{name: "punctuation", id: 1, guess: "fruits!"},
		{name: "partial", id: 1, guess: "fru"},
		{name: "superstring", id: 1, guess: "fruitsalad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.id)
			out, err := s.SubmitGuess(tt.guess)
			if err != nil {
				t.Fatalf("SubmitGuess(%q) error = %v", tt.guess, err)
			}
			if out.Won || s.Status() != StatusPlaying {
				t.Errorf("SubmitGuess(%q) = %+v, want wrong", tt.guess, out)
			}
		})
	}
}

func TestWinOnEachAttempt(t *testing.T) {
	for attempt := 1; attempt <= MaxGuesses; attempt++ {
		s := newSession(t, 1)
		for i := 1; i < attempt; i++ {
			if _, err := s.SubmitGuess("wrong"); err != nil {
				t.Fatal(err)
			}
		}
		revealed := s.Revealed()
		out, err := s.SubmitGuess("fruits")
		if err != nil {
			t.Fatal(err)
		}
		if !out.Won || s.Status() != StatusWon {
			t.Errorf("attempt %d: outcome = %+v", attempt, out)
		}
		if s.Revealed() != revealed {
			t.Errorf("attempt %d: winning guess revealed a clue (%d -> %d)", attempt, revealed, s.Revealed())
		}
		if len(s.Guesses()) != attempt {
			t.Errorf("attempt %d: guesses = %d", attempt, len(s.Guesses()))
		}
	}
}

func TestGuessesAfterFinishIgnored(t *testing.T) {
	s := newSession(t, 1)
	if _, err := s.SubmitGuess("fruits"); err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{"fruits", "wrong", ""} {
		out, err := s.SubmitGuess(in)
		if err != nil {
			t.Errorf("SubmitGuess(%q) after win error = %v", in, err)
		}
		if !out.Ignored || out.Status != StatusWon {
			t.Errorf("SubmitGuess(%q) after win = %+v, want ignored", in, out)
		}
	}
	if len(s.Guesses()) != 1 || s.Status() != StatusWon {
		t.Errorf("session changed after finish: %+v", s)
	}
}

func TestRevealedNeverDecreasesOrExceedsMax(t *testing.T) {
	s := newSession(t, 1)
	prev := s.Revealed()
	for i := 0; i < 10; i++ {
		_, _ = s.SubmitGuess("wrong")
		if s.Revealed() < prev || s.Revealed() > puzzles.ClueCount {
			t.Fatalf("step %d: revealed = %d (prev %d)", i, s.Revealed(), prev)
		}
		prev = s.Revealed()
	}
	if len(s.Guesses()) != MaxGuesses {
		t.Errorf("guesses = %d, want %d", len(s.Guesses()), MaxGuesses)
	}
}

func TestDuplicateGuessesCounted(t *testing.T) {
	s := newSession(t, 1)
	for i := 0; i < 3; i++ {
		if _, err := s.SubmitGuess("berries"); err != nil {
			t.Fatal(err)
		}
	}
	if want := []string{"berries", "berries", "berries"}; !reflect.DeepEqual(s.Guesses(), want) {
		t.Errorf("Guesses = %v, want %v", s.Guesses(), want)
	}
}

func TestRestartResetsState(t *testing.T) {
	s := newSession(t, 1)
	for i := 0; i < MaxGuesses; i++ {
		_, _ = s.SubmitGuess("wrong")
	}
	if s.Status() != StatusLost {
		t.Fatalf("Status = %s, want lost", s.Status())
	}
	if err := s.Start(1); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusPlaying || s.Revealed() != 1 || len(s.Guesses()) != 0 {
		t.Errorf("after restart = %+v", s)
	}
}

func TestRevealedCluesIsCopy(t *testing.T) {
	s := newSession(t, 1)
	clues := s.RevealedClues()
	clues[0] = "changed"
	if s.Puzzle().Clues[0] != "c1" {
		t.Errorf("RevealedClues() aliased puzzle clues")
	}
}

func TestNextPuzzleID(t *testing.T) {
	tests := []struct {
		name    string
		dataset string
		current int
		want    int
	}{
		{name: "next exists", dataset: testDataset, current: 1, want: 2},
		{name: "wraps after last", dataset: testDataset, current: 3, want: 1},
		{name: "gap wraps to first", dataset: `[
			{"id": 2, "category": "a", "clues": ["a","b","c","d","e"], "acceptedAnswers": ["a"]},
			{"id": 5, "category": "b", "clues": ["a","b","c","d","e"], "acceptedAnswers": ["b"]}]`, current: 2, want: 2},
		{name: "single puzzle", dataset: `[{"id": 4, "category": "a", "clues": ["a","b","c","d","e"], "acceptedAnswers": ["a"]}]`, current: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := puzzles.Load([]byte(tt.dataset))
			if err != nil {
				t.Fatal(err)
			}
			s, err := Start(repo, tt.current)
			if err != nil {
				t.Fatal(err)
			}
			if got := s.NextPuzzleID(); got != tt.want {
				t.Errorf("NextPuzzleID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Fruits", want: "fruits"},
		{in: "  FRUITS\t", want: "fruits"},
		{in: "\nChess  Pieces\r\n", want: "chess  pieces"},
		{in: "rock'n'roll!", want: "rock'n'roll!"},
		{in: "   ", want: ""},
		{in: "Ærø", want: "ærø"},
	}

	for _, tt := range tests {
		got := Normalize(tt.in)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := Normalize(got); again != got {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", tt.in, got, again)
		}
	}
}

func TestIndependentSessions(t *testing.T) {
	repo := newRepo(t)
	a, err := Start(repo, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Start(repo, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.SubmitGuess("fruits"); err != nil {
		t.Fatal(err)
	}
	if b.Status() != StatusPlaying || len(b.Guesses()) != 0 {
		t.Errorf("session b affected by session a: %+v", b)
	}
}

func TestZeroSession(t *testing.T) {
	var s Session

	if got := s.RevealedClues(); got != nil {
		t.Errorf("RevealedClues() = %v, want nil", got)
	}
	if got := s.Category(); got != "" {
		t.Errorf("Category() = %q, want empty", got)
	}
	out, err := s.SubmitGuess("fruits")
	if err != nil || !out.Ignored {
		t.Errorf("SubmitGuess on zero session = %+v, %v; want ignored", out, err)
	}
	if s.GuessCount() != 0 {
		t.Errorf("guess recorded on zero session: %v", s.Guesses())
	}
	if got := s.NextPuzzleID(); got != 0 {
		t.Errorf("NextPuzzleID() = %d, want 0", got)
	}
	if err := s.Start(1); !errors.Is(err, ErrNoSource) {
		t.Errorf("Start(1) error = %v, want ErrNoSource", err)
	}
}

func TestGuessesIsCopy(t *testing.T) {
	s := newSession(t, 1)
	if _, err := s.SubmitGuess("animals"); err != nil {
		t.Fatal(err)
	}
	got := s.Guesses()
	got[0] = "fruits"
	if s.Guesses()[0] != "animals" || s.Status() != StatusPlaying {
		t.Errorf("mutating Guesses() changed the session: %v %s", s.Guesses(), s.Status())
	}
}
