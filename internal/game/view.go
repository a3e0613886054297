// internal/game/view.go
//
// Derived views over a State. None of these are stored; callers recompute
// them from the current state whenever they render.

package game

import "strings"

const (
	// Stages is the number of gallows drawings, one per possible miss count.
	Stages = MaxIncorrect + 1

	maskPlaceholder = "_"
	maskDelimiter   = " "
)

// Mask renders the word with unguessed letters hidden, e.g. "C A _".
func Mask(s State) string {
	word := s.Word.Word
	parts := make([]string, 0, len(word))
	for _, r := range word {
		if s.Guessed.Has(r) {
			parts = append(parts, string(r))
		} else {
			parts = append(parts, maskPlaceholder)
		}
	}
	return strings.Join(parts, maskDelimiter)
}

// Classify splits the guessed letters into those in the word and those not,
// each in alphabetical order.
func Classify(s State) (correct, incorrect []string) {
	correct, incorrect = []string{}, []string{}
	for _, r := range s.Guessed.Letters() {
		if strings.ContainsRune(s.Word.Word, r) {
			correct = append(correct, string(r))
		} else {
			incorrect = append(incorrect, string(r))
		}
	}
	return correct, incorrect
}

// Stage is the severity index for the gallows drawing, in [0, MaxIncorrect].
func Stage(s State) int {
	return min(max(s.Incorrect, 0), MaxIncorrect)
}

// Drawing returns the ASCII gallows for stage, clamped into range.
func Drawing(stage int) string {
	return gallows[min(max(stage, 0), Stages-1)]
}

var gallows = [Stages]string{
	"  +---+\n  |   |\n      |\n      |\n      |\n      |\n=========",
	"  +---+\n  |   |\n  O   |\n      |\n      |\n      |\n=========",
	"  +---+\n  |   |\n  O   |\n  |   |\n      |\n      |\n=========",
	"  +---+\n  |   |\n  O   |\n /|   |\n      |\n      |\n=========",
	"  +---+\n  |   |\n  O   |\n /|\\  |\n      |\n      |\n=========",
	"  +---+\n  |   |\n  O   |\n /|\\  |\n /    |\n      |\n=========",
	"  +---+\n  |   |\n  O   |\n /|\\  |\n / \\  |\n      |\n=========",
}
