// Package rarity defines the seven-tier quality ladder, weighted tier
// distributions, and the resolver that assigns a tier to a single roll.
package rarity

import "fmt"

// Tier is one of the seven ordered quality levels. Tiers order by ordinal:
// Common (1) is the least rare, Apocalypse (7) the rarest.
type Tier int

const (
	TierCommon Tier = iota + 1
	TierUncommon
	TierRare
	TierEpic
	TierLegendary
	TierPearlescent
	TierApocalypse
)

// TierCount is the number of defined tiers.
const TierCount = 7

var tierNames = map[Tier]string{
	TierCommon:      "common",
	TierUncommon:    "uncommon",
	TierRare:        "rare",
	TierEpic:        "epic",
	TierLegendary:   "legendary",
	TierPearlescent: "pearlescent",
	TierApocalypse:  "apocalypse",
}

// String returns the lowercase tier name, or "tier(<n>)" for invalid values.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Valid reports whether t is one of the seven defined tiers.
func (t Tier) Valid() bool {
	return t >= TierCommon && t <= TierApocalypse
}

// ParseTier converts a lowercase tier name to its Tier.
//
// Postcondition: Returns a valid Tier or a non-nil error naming the input.
func ParseTier(name string) (Tier, error) {
	for t, n := range tierNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("rarity: unknown tier name %q", name)
}

// All returns the tiers in ascending ordinal order.
func All() []Tier {
	return []Tier{
		TierCommon, TierUncommon, TierRare, TierEpic,
		TierLegendary, TierPearlescent, TierApocalypse,
	}
}

// StatRange is the stat-improvement range a tier confers, in percent.
type StatRange struct {
	MinPct float64
	MaxPct float64
}

// TierInfo is the static configuration for one tier: its probability weight
// in the global distribution and the stat-improvement range it confers.
type TierInfo struct {
	Weight      float64
	Improvement StatRange
}

// Table maps every tier to its TierInfo. Authored once, read-only during
// rolls.
type Table struct {
	Info map[Tier]TierInfo
}

// Distribution returns the global tier distribution encoded by the table
// weights.
//
// Postcondition: result[t] == Info[t].Weight for every defined tier.
func (tb *Table) Distribution() Distribution {
	var d Distribution
	for t, info := range tb.Info {
		if t.Valid() {
			d[t-1] = info.Weight
		}
	}
	return d
}
