package rng

import "math/rand"

// seededSource implements Source using math/rand with a fixed seed.
//
// Invariant: Two seededSources created with the same seed produce identical
// draw sequences. Not safe for concurrent use.
type seededSource struct {
	r *rand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
//
// Postcondition: the returned Source replays the same sequence for the same
// seed; callers replaying a roll must also replay the draw order.
func NewSeededSource(seed int64) Source {
	return &seededSource{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return s.r.Intn(n)
}

// Float64 returns a random float in [0.0, 1.0).
func (s *seededSource) Float64() float64 {
	return s.r.Float64()
}
