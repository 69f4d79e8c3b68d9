package rarity

import "fmt"

// Distribution holds a probability weight per tier, indexed by Tier-1.
// Weights need not sum to 1; Normalize produces the unit-sum form.
type Distribution [TierCount]float64

// Weight returns the weight for tier t, or 0 for invalid tiers.
func (d Distribution) Weight(t Tier) float64 {
	if !t.Valid() {
		return 0
	}
	return d[t-1]
}

// Total returns the sum of all tier weights.
func (d Distribution) Total() float64 {
	var sum float64
	for _, w := range d {
		sum += w
	}
	return sum
}

// IsZero reports whether every tier weight is zero.
func (d Distribution) IsZero() bool {
	return d.Total() == 0
}

// Normalize returns a copy of d scaled so its weights sum to 1.
//
// Precondition: d.Total() > 0.
// Postcondition: result.Total() == 1 within floating-point epsilon.
func (d Distribution) Normalize() Distribution {
	total := d.Total()
	if total <= 0 {
		panic("rarity: Normalize called on zero-total distribution")
	}
	var out Distribution
	for i, w := range d {
		out[i] = w / total
	}
	return out
}

// Validate checks distribution invariants: no negative weights and at least
// one positive weight.
//
// Postcondition: Returns nil iff d is usable by Resolve.
func (d Distribution) Validate() error {
	for i, w := range d {
		if w < 0 {
			return fmt.Errorf("rarity: distribution weight for %s is negative (%g)", Tier(i+1), w)
		}
	}
	if d.IsZero() {
		return fmt.Errorf("rarity: distribution has no positive weights")
	}
	return nil
}
