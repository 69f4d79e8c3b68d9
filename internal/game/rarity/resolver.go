package rarity

import "github.com/cory-johannsen/lootforge/internal/game/rng"

// Resolve samples a tier from dist subject to the bounds [minBound, maxBound].
//
// The draw checks the highest tier's cumulative band first and walks down
// (Apocalypse → Common). A sampled tier outside the bounds rejects that tier
// only, not the whole draw: resolution re-evaluates at the next lower band
// until a tier inside the bounds is found, and returns minBound as the
// guaranteed floor when the walk runs out. Resolution therefore never fails;
// it only degrades toward the lower bound.
//
// Precondition: src non-nil; minBound <= maxBound; both bounds valid tiers.
// Bounds outside the tier range are clamped. A zero-total distribution
// resolves uniformly across all tiers before bounding.
// Postcondition: minBound <= result <= maxBound.
func Resolve(dist Distribution, minBound, maxBound Tier, src rng.Source) Tier {
	if minBound < TierCommon {
		minBound = TierCommon
	}
	if maxBound > TierApocalypse {
		maxBound = TierApocalypse
	}
	if minBound > maxBound {
		minBound = maxBound
	}

	sampled := sampleTier(dist, src)
	for t := sampled; t >= TierCommon; t-- {
		if t >= minBound && t <= maxBound {
			return t
		}
	}
	return minBound
}

// sampleTier draws one tier from dist, scanning cumulative bands from the
// top tier down. List order is fixed by tier ordinal, so seeded replays are
// stable.
func sampleTier(dist Distribution, src rng.Source) Tier {
	total := dist.Total()
	if total <= 0 {
		return Tier(src.Intn(TierCount) + 1)
	}

	roll := src.Float64() * total
	var cumulative float64
	for t := TierApocalypse; t >= TierCommon; t-- {
		w := dist.Weight(t)
		if w <= 0 {
			continue
		}
		cumulative += w
		if cumulative >= roll {
			return t
		}
	}
	return TierCommon
}

// Band lower bounds for FromMean, scanned top-down. Inclusive lower bound:
// a mean exactly on a cutoff maps to the higher band, and means falling in
// the gaps between authored bands (e.g. 1.55) map to the band below.
var meanCutoffs = [...]struct {
	floor float64
	tier  Tier
}{
	{6.6, TierApocalypse},
	{5.6, TierPearlescent},
	{4.6, TierLegendary},
	{3.6, TierEpic},
	{2.6, TierRare},
	{1.6, TierUncommon},
}

// FromMean maps the mean of part-tier ordinals to the composite item's
// effective tier. The cutoffs are exact contract: [1.0,1.6) Common,
// [1.6,2.6) Uncommon, [2.6,3.6) Rare, [3.6,4.6) Epic, [4.6,5.6) Legendary,
// [5.6,6.6) Pearlescent, [6.6,7.0] Apocalypse.
//
// Precondition: 1.0 <= mean <= 7.0 (values outside clamp to the end tiers).
func FromMean(mean float64) Tier {
	for _, c := range meanCutoffs {
		if mean >= c.floor {
			return c.tier
		}
	}
	return TierCommon
}
