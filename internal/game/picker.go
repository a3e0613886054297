package game

import "math/rand/v2"

// Picker selects an index in [0, n) for n > 0. It is the only source of
// randomness in the engine.
type Picker interface {
	Pick(n int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(n int) int

// Pick calls f(n).
func (f PickerFunc) Pick(n int) int { return f(n) }

// Random picks uniformly using the math/rand/v2 global generator. It is safe
// for concurrent use.
var Random Picker = PickerFunc(rand.IntN)

// Seeded returns a deterministic uniform picker. Not safe for concurrent use.
func Seeded(seed uint64) Picker {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return PickerFunc(r.IntN)
}

// Fixed always picks i, wrapped into range.
func Fixed(i int) Picker {
	return PickerFunc(func(n int) int {
		if i < 0 {
			return 0
		}
		return i % n
	})
}
