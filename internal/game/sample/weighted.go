// Package sample provides the weighted-choice primitive every roll in the
// loot engine is built on.
package sample

import (
	"errors"

	"github.com/cory-johannsen/lootforge/internal/game/rng"
)

// ErrEmptyPool is returned when a weighted pick is attempted over an empty
// candidate list. It indicates a configuration gap, not a bad roll.
var ErrEmptyPool = errors.New("sample: weighted pick over empty candidate pool")

// Candidate pairs a value with its selection weight.
type Candidate[T any] struct {
	Value  T
	Weight float64
}

// Pick selects one candidate with probability proportional to its weight.
//
// The draw is a single cumulative pass: roll = Float64() * sum(weights), and
// the first candidate whose cumulative weight reaches the roll wins. Ties
// break in list order; seeded replays depend on that ordering, so callers
// must present candidates in a stable order.
//
// Negative weights are treated as zero. If every weight is zero the pick
// falls back to uniform selection, so a non-empty pool always yields a value.
//
// Precondition: src must be non-nil.
// Postcondition: Returns ErrEmptyPool iff len(candidates) == 0.
func Pick[T any](candidates []Candidate[T], src rng.Source) (T, error) {
	i, err := PickIndex(candidates, src)
	if err != nil {
		var zero T
		return zero, err
	}
	return candidates[i].Value, nil
}

// PickIndex selects the index of one candidate using the same contract as
// Pick. Callers that need to remove the winner from the pool (duplicate
// rejection) use this form.
func PickIndex[T any](candidates []Candidate[T], src rng.Source) (int, error) {
	if len(candidates) == 0 {
		return -1, ErrEmptyPool
	}

	var total float64
	for _, c := range candidates {
		if c.Weight > 0 {
			total += c.Weight
		}
	}

	if total <= 0 {
		return src.Intn(len(candidates)), nil
	}

	roll := src.Float64() * total
	var cumulative float64
	last := -1
	for i, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		cumulative += c.Weight
		last = i
		if cumulative >= roll {
			return i, nil
		}
	}

	// Float64() < 1.0 keeps roll strictly below total, but guard the final
	// positive-weight candidate against accumulated floating-point error.
	return last, nil
}
