// internal/game/types.go
//
// Core type definitions for the hangman game engine.
// Defines:
//   - Status: round state (playing/won/lost).
//   - WordEntry / Catalog: candidate words and their hints.
//   - LetterSet: the guessed letters of a round (A–Z bitset).
//   - State: the value a round is made of; replaced, never mutated.
//   - Round: controller record wrapping a State with ids and timestamps.

package game

import (
	"math/bits"
	"time"
)

// Status is the coarse state of a round.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Finished reports whether s is terminal.
func (s Status) Finished() bool { return s == StatusWon || s == StatusLost }

// WordEntry is one candidate word (uppercase A–Z) and the hint shown with it.
type WordEntry struct {
	Word string `json:"word"`
	Hint string `json:"hint"`
}

// Catalog is the fixed set of entries a round's word is drawn from.
type Catalog []WordEntry

// LetterSet holds uppercase ASCII letters, one bit per letter (bit 0 = 'A').
// The zero value is the empty set.
type LetterSet uint32

// Has reports whether r is in the set. Non A–Z runes are never members.
func (s LetterSet) Has(r rune) bool {
	if r < 'A' || r > 'Z' {
		return false
	}
	return s&(1<<uint(r-'A')) != 0
}

// With returns s plus r. Inserting a present letter or a non A–Z rune
// returns s unchanged.
func (s LetterSet) With(r rune) LetterSet {
	if r < 'A' || r > 'Z' {
		return s
	}
	return s | 1<<uint(r-'A')
}

// Len is the number of letters in the set.
func (s LetterSet) Len() int { return bits.OnesCount32(uint32(s)) }

// Letters returns the members in alphabetical order.
func (s LetterSet) Letters() []rune {
	out := make([]rune, 0, s.Len())
	for r := 'A'; r <= 'Z'; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// lettersOf builds the set of letters used by word.
func lettersOf(word string) LetterSet {
	var s LetterSet
	for _, r := range word {
		s = s.With(r)
	}
	return s
}

// State is the whole state of one round. It is a comparable value: two
// states are identical iff they are ==.
type State struct {
	Word      WordEntry // target word and hint
	Guessed   LetterSet // every letter guessed so far, uppercased
	Incorrect int       // guessed letters absent from Word.Word
	Status    Status
}

// Round is the record the round controller keeps per player session.
type Round struct {
	ID        string    // unique round id
	SessionID string    // owning session
	Mode      string    // "random" | "daily"
	State     State     // current state, replaced on every transition
	StartedAt time.Time // round start (UTC)
	UpdatedAt time.Time // last state change (UTC)
}
