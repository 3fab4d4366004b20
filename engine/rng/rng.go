package rng

import "math/rand"

// RNG wraps math/rand.Rand. A fixed seed consumed in a fixed call order
// reproduces a fixed world.
type RNG struct {
	src *rand.Rand
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.src.Intn(sides) + 1
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	return r.src.Intn(n)
}

// Choice returns a random element of the slice.
func (r *RNG) Choice(values []string) string {
	return values[r.Intn(len(values))]
}

// Shuffle permutes the slice in place.
func (r *RNG) Shuffle(values []string) {
	r.src.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
}
