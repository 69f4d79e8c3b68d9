// Package rng provides the randomness abstraction threaded through every
// roll operation in the loot engine.
//
// No package in the engine ever touches a global generator: each call takes
// its own Source so concurrent rollers never contend and seeded replays are
// byte-for-byte reproducible.
package rng

// Source is the randomness provider for loot rolls.
//
// Implementations are NOT required to be safe for concurrent use; give each
// goroutine its own Source.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int

	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// IntInRange returns a uniform random int in [low, high] drawn from src.
//
// Precondition: low <= high; src must be non-nil.
func IntInRange(src Source, low, high int) int {
	if low >= high {
		return low
	}
	return low + src.Intn(high-low+1)
}
