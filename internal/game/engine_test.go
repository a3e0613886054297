package game

import (
	"strings"
	"testing"
)

var testCatalog = Catalog{
	{Word: "CAT", Hint: "small feline"},
	{Word: "HANGMAN", Hint: "the game itself"},
	{Word: "COMPUTER", Hint: "runs the code"},
}

func catRound() State {
	return NewRound(Catalog{{Word: "CAT", Hint: "pet"}}, Fixed(0))
}

func play(s State, letters ...string) State {
	for _, l := range letters {
		s = ApplyGuess(s, l)
	}
	return s
}

// checkInvariants verifies the relations between the fields of s.
func checkInvariants(t *testing.T, s State) {
	t.Helper()
	misses := 0
	for _, r := range s.Guessed.Letters() {
		if !strings.ContainsRune(s.Word.Word, r) {
			misses++
		}
	}
	if s.Incorrect != misses {
		t.Fatalf("incorrect = %d, want %d guessed letters absent from %q", s.Incorrect, misses, s.Word.Word)
	}
	won := lettersOf(s.Word.Word)&^s.Guessed == 0
	if (s.Status == StatusWon) != won {
		t.Fatalf("status = %s, but all letters guessed = %v", s.Status, won)
	}
	lost := !won && s.Incorrect >= MaxIncorrect
	if (s.Status == StatusLost) != lost {
		t.Fatalf("status = %s, but lost predicate = %v", s.Status, lost)
	}
}

// TestNewRoundStartsPlaying ensures a new round is empty and playing.
func TestNewRoundStartsPlaying(t *testing.T) {
	s := NewRound(testCatalog, Fixed(1))
	if s.Word != testCatalog[1] {
		t.Fatalf("expected word %+v, got %+v", testCatalog[1], s.Word)
	}
	if s.Guessed != 0 || s.Guessed.Len() != 0 {
		t.Fatalf("expected no guessed letters, got %v", s.Guessed.Letters())
	}
	if s.Incorrect != 0 {
		t.Fatalf("expected 0 incorrect, got %d", s.Incorrect)
	}
	if s.Status != StatusPlaying {
		t.Fatalf("expected status playing, got %s", s.Status)
	}
}

// TestNewRoundTwiceIsIndependent ensures each round starts fresh.
func TestNewRoundTwiceIsIndependent(t *testing.T) {
	p := Seeded(42)
	a := NewRound(testCatalog, p)
	b := NewRound(testCatalog, p)
	for _, s := range []State{a, b} {
		if s.Guessed.Len() != 0 || s.Incorrect != 0 || s.Status != StatusPlaying {
			t.Fatalf("expected fresh round, got %+v", s)
		}
	}
}

// TestNewRoundPanicsOnEmptyCatalog documents the configuration error.
func TestNewRoundPanicsOnEmptyCatalog(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty catalog")
		}
	}()
	NewRound(nil, Random)
}

// TestSeededPickerCoversCatalog ensures the seeded picker stays in range and
// reaches every entry.
func TestSeededPickerCoversCatalog(t *testing.T) {
	p := Seeded(7)
	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		s := NewRound(testCatalog, p)
		seen[s.Word.Word] = true
	}
	if len(seen) != len(testCatalog) {
		t.Fatalf("expected all %d entries to be drawn, got %v", len(testCatalog), seen)
	}
}

// TestApplyGuessWinScenario walks CAT to a win.
func TestApplyGuessWinScenario(t *testing.T) {
	steps := []struct {
		letter string
		mask   string
		status Status
	}{
		{"A", "_ A _", StatusPlaying},
		{"C", "C A _", StatusPlaying},
		{"T", "C A T", StatusWon},
	}
	s := catRound()
	for _, st := range steps {
		s = ApplyGuess(s, st.letter)
		if got := Mask(s); got != st.mask {
			t.Fatalf("after %s: mask = %q, want %q", st.letter, got, st.mask)
		}
		if s.Status != st.status {
			t.Fatalf("after %s: status = %s, want %s", st.letter, s.Status, st.status)
		}
		if s.Incorrect != 0 {
			t.Fatalf("after %s: incorrect = %d, want 0", st.letter, s.Incorrect)
		}
		checkInvariants(t, s)
	}
}

// TestApplyGuessLossScenario ensures six distinct misses lose the round.
func TestApplyGuessLossScenario(t *testing.T) {
	s := catRound()
	misses := []string{"X", "Y", "Z", "Q", "W", "E"}
	for i, l := range misses {
		s = ApplyGuess(s, l)
		if s.Incorrect != i+1 {
			t.Fatalf("after %s: incorrect = %d, want %d", l, s.Incorrect, i+1)
		}
		want := StatusPlaying
		if i == len(misses)-1 {
			want = StatusLost
		}
		if s.Status != want {
			t.Fatalf("after %s: status = %s, want %s", l, s.Status, want)
		}
		checkInvariants(t, s)
	}
}

// TestApplyGuessIsCaseInsensitive ensures lowercase letters are stored uppercased.
func TestApplyGuessIsCaseInsensitive(t *testing.T) {
	lower := ApplyGuess(catRound(), "c")
	upper := ApplyGuess(catRound(), "C")
	if lower != upper {
		t.Fatalf("expected identical states, got %+v and %+v", lower, upper)
	}
	if !lower.Guessed.Has('C') {
		t.Fatalf("expected C to be recorded, got %v", lower.Guessed.Letters())
	}
	if again := ApplyGuess(lower, "C"); again != lower {
		t.Fatalf("expected C after c to be a no-op, got %+v", again)
	}
}

// TestApplyGuessIsIdempotent ensures a repeated letter changes nothing.
func TestApplyGuessIsIdempotent(t *testing.T) {
	for _, l := range []string{"A", "x", "t"} {
		once := ApplyGuess(catRound(), l)
		twice := ApplyGuess(once, l)
		if once != twice {
			t.Fatalf("letter %q: once %+v, twice %+v", l, once, twice)
		}
	}
}

// TestApplyGuessIgnoresInvalidInput ensures non-letters are no-ops.
func TestApplyGuessIgnoresInvalidInput(t *testing.T) {
	base := ApplyGuess(catRound(), "Z")
	for _, in := range []string{"", " ", "1", "?", "ab", "é", "Ω", "\n"} {
		if got := ApplyGuess(base, in); got != base {
			t.Fatalf("input %q: expected no-op, got %+v", in, got)
		}
	}
}

// TestApplyGuessRejectsPaddedLetter ensures a letter with surrounding
// whitespace is not a single character and leaves the round unchanged.
func TestApplyGuessRejectsPaddedLetter(t *testing.T) {
	base := catRound()
	for _, in := range []string{" a", "a ", "a\n", "\tT", " A "} {
		if got := ApplyGuess(base, in); got != base {
			t.Fatalf("input %q: expected no-op, got %+v", in, got)
		}
	}
}

// TestApplyGuessFrozenAfterFinish ensures terminal states ignore guesses.
func TestApplyGuessFrozenAfterFinish(t *testing.T) {
	won := play(catRound(), "C", "A", "T")
	lost := play(catRound(), "B", "D", "F", "G", "H", "I")
	for _, s := range []State{won, lost} {
		if !s.Status.Finished() {
			t.Fatalf("expected finished round, got %s", s.Status)
		}
		for _, l := range []string{"J", "K", "C", "A"} {
			if got := ApplyGuess(s, l); got != s {
				t.Fatalf("%s round: letter %s changed state to %+v", s.Status, l, got)
			}
		}
	}
}

// TestApplyGuessWinsOnLastLetterBeforeLoss ensures a win takes precedence
// when the final correct letter arrives after five misses.
func TestApplyGuessWinsOnLastLetterBeforeLoss(t *testing.T) {
	s := play(catRound(), "B", "D", "F", "G", "H", "C", "A", "T")
	if s.Status != StatusWon {
		t.Fatalf("expected won, got %s", s.Status)
	}
	if s.Incorrect != 5 {
		t.Fatalf("expected 5 incorrect, got %d", s.Incorrect)
	}
}

// TestApplyGuessDoesNotMutateInput ensures the previous state is untouched.
func TestApplyGuessDoesNotMutateInput(t *testing.T) {
	before := catRound()
	snapshot := before
	_ = ApplyGuess(before, "Q")
	if before != snapshot {
		t.Fatalf("input state changed: %+v", before)
	}
}

// TestApplyGuessInvariantsHoldForSequences runs many seeded games and checks
// the state relations after every step.
func TestApplyGuessInvariantsHoldForSequences(t *testing.T) {
	p := Seeded(2024)
	for game := 0; game < 200; game++ {
		s := NewRound(testCatalog, p)
		for step := 0; step < 30; step++ {
			letter := string(rune('a' + p.Pick(26)))
			if p.Pick(4) == 0 {
				letter = strings.ToUpper(letter)
			}
			s = ApplyGuess(s, letter)
			checkInvariants(t, s)
		}
	}
}

// TestAlreadyGuessed reports repeats regardless of case.
func TestAlreadyGuessed(t *testing.T) {
	s := ApplyGuess(catRound(), "a")
	tcs := map[string]bool{"A": true, "a": true, "C": false, "": false, "1": false}
	for in, want := range tcs {
		if got := AlreadyGuessed(s, in); got != want {
			t.Fatalf("AlreadyGuessed(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestLetterSet covers membership and ordering.
func TestLetterSet(t *testing.T) {
	var s LetterSet
	s = s.With('Z').With('A').With('M').With('A').With('1')
	if s.Len() != 3 {
		t.Fatalf("expected 3 letters, got %d", s.Len())
	}
	if got := string(s.Letters()); got != "AMZ" {
		t.Fatalf("expected AMZ, got %s", got)
	}
	if s.Has('a') || s.Has('B') {
		t.Fatalf("unexpected membership in %v", s.Letters())
	}
}
