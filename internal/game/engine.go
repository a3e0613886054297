// internal/game/engine.go
//
// Core game engine for a single hangman round.
// Responsibilities:
//   - Start rounds by drawing one catalog entry through a Picker.
//   - Apply guessed letters (case-insensitive, one ASCII letter at a time).
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Every operation is a pure function of its inputs. ApplyGuess returns a
//     new State and never touches the one it was given.
//   - Invalid input (empty, not a letter, repeated, round over) is a no-op,
//     never an error.
package game

import (
	"strings"
	"unicode/utf8"
)

// MaxIncorrect is the number of wrong letters that loses a round.
const MaxIncorrect = 6

// NewRound starts a round on an entry picked from catalog.
// It panics if catalog is empty; words.Load never returns an empty catalog.
func NewRound(catalog Catalog, p Picker) State {
	if len(catalog) == 0 {
		panic("game: NewRound on empty catalog")
	}
	return State{
		Word:   catalog[p.Pick(len(catalog))],
		Status: StatusPlaying,
	}
}

// ApplyGuess applies one guessed letter and returns the resulting state.
//
// s is returned unchanged when:
//   - the round is already won or lost,
//   - letter is not exactly one ASCII letter (surrounding spaces ignored),
//   - the letter was guessed before (in either case).
//
// Otherwise the uppercased letter is recorded, a miss bumps Incorrect, and
// the status is recomputed: won once every letter of the word is guessed,
// else lost at MaxIncorrect misses.
func ApplyGuess(s State, letter string) State {
	if s.Status != StatusPlaying {
		return s
	}
	r, ok := normalize(letter)
	if !ok || s.Guessed.Has(r) {
		return s
	}

	next := s
	next.Guessed = s.Guessed.With(r)
	if !strings.ContainsRune(s.Word.Word, r) {
		next.Incorrect++
	}
	next.Status = status(next)
	return next
}

// AlreadyGuessed reports whether letter is a valid letter that was already
// guessed in s.
func AlreadyGuessed(s State, letter string) bool {
	r, ok := normalize(letter)
	return ok && s.Guessed.Has(r)
}

// status derives the status of s from its word, guesses and miss count.
func status(s State) Status {
	if lettersOf(s.Word.Word)&^s.Guessed == 0 {
		return StatusWon
	}
	if s.Incorrect >= MaxIncorrect {
		return StatusLost
	}
	return StatusPlaying
}

// normalize maps a one-letter string to its uppercase rune. Padding is not
// stripped: " a" is two characters and therefore not a guess.
func normalize(letter string) (rune, bool) {
	if utf8.RuneCountInString(letter) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(letter)
	switch {
	case r >= 'a' && r <= 'z':
		return r - 'a' + 'A', true
	case r >= 'A' && r <= 'Z':
		return r, true
	}
	return 0, false
}
