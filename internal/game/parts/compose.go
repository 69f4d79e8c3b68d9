package parts

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
	"github.com/cory-johannsen/lootforge/internal/game/rng"
	"github.com/cory-johannsen/lootforge/internal/game/sample"
)

// NoCandidatesError reports a category whose pools were empty at the
// resolved tier and at every step-down tier below it. It always indicates an
// authoring gap, never a bad roll.
type NoCandidatesError struct {
	Category Category
	Tier     rarity.Tier
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("parts: no candidates for %s at %s or any lower tier", e.Category, e.Tier)
}

// Pool serves part lookups by category and tier. The dataset index
// implements it; pools must return parts in a stable order for seeded
// replay.
type Pool interface {
	// Parts returns the authored parts for the given category and tier,
	// possibly empty.
	Parts(cat Category, tier rarity.Tier) []*Def
}

// ComposeOptions parameterizes a single composition.
type ComposeOptions struct {
	// Fixed pins a part per category; pinned parts bypass pool sampling
	// entirely (the unique-item path).
	Fixed map[Category]*Def
	// Omit lists categories to build without.
	Omit []Category
	// MinTier and MaxTier bound tier resolution for randomized categories.
	MinTier rarity.Tier
	MaxTier rarity.Tier
	// Preferred and Bias re-weight receiver candidates whose manufacturer
	// is in the preference list. Bias <= 0 means no re-weighting.
	Preferred []manufacturer.ID
	Bias      float64
	// WorldDrop restricts pools to world-drop-eligible parts.
	WorldDrop bool
	// PlayerLevel filters out parts above the player's level; 0 disables
	// the filter.
	PlayerLevel int
}

// Composed is the result of assembling one weapon.
type Composed struct {
	Parts map[Category]*Def
	// Rarity is the effective tier: the banded mean of the part tiers.
	Rarity rarity.Tier
	// Manufacturer comes from the receiver part.
	Manufacturer manufacturer.ID
}

// Composer assembles composite weapons from category pools.
type Composer struct {
	pool   Pool
	dist   rarity.Distribution
	logger *zap.Logger
}

// NewComposer creates a Composer sampling tiers from dist and parts from
// pool.
//
// Precondition: pool and logger must be non-nil; dist must validate.
func NewComposer(pool Pool, dist rarity.Distribution, logger *zap.Logger) *Composer {
	return &Composer{pool: pool, dist: dist, logger: logger}
}

// Compose selects one part per category and computes the effective rarity.
//
// For each category in canonical order: a fixed override is used verbatim;
// otherwise a tier is resolved within [opts.MinTier, opts.MaxTier] and a
// part is sampled from the (category, tier) pool. An empty pool steps the
// tier down one level and re-queries until Common; empty at Common is a
// *NoCandidatesError. Tier step-downs are degraded results, not failures,
// and log at warn level for balance review.
//
// Postcondition: on success every non-omitted category has exactly one part
// and Rarity == rarity.FromMean(mean of part tier ordinals).
func (c *Composer) Compose(opts ComposeOptions, src rng.Source) (*Composed, error) {
	omitted := make(map[Category]bool, len(opts.Omit))
	for _, cat := range opts.Omit {
		omitted[cat] = true
	}

	chosen := make(map[Category]*Def, CategoryCount)
	for _, cat := range Categories() {
		if omitted[cat] {
			continue
		}
		if fixed, ok := opts.Fixed[cat]; ok && fixed != nil {
			chosen[cat] = fixed
			continue
		}

		part, err := c.samplePart(cat, opts, src)
		if err != nil {
			return nil, err
		}
		chosen[cat] = part
	}

	composed := &Composed{
		Parts:  chosen,
		Rarity: effectiveRarity(chosen),
	}
	if receiver, ok := chosen[ManufacturerCategory]; ok {
		composed.Manufacturer = receiver.Manufacturer
	}
	return composed, nil
}

// samplePart resolves a tier for cat and draws one part, stepping the tier
// down while the filtered pool is empty.
func (c *Composer) samplePart(cat Category, opts ComposeOptions, src rng.Source) (*Def, error) {
	resolved := rarity.Resolve(c.dist, opts.MinTier, opts.MaxTier, src)

	for tier := resolved; tier >= rarity.TierCommon; tier-- {
		candidates := c.candidates(cat, tier, opts)
		if len(candidates) == 0 {
			continue
		}
		if tier < resolved {
			c.logger.Warn("part pool degraded to lower tier",
				zap.Stringer("category", cat),
				zap.Stringer("resolved", resolved),
				zap.Stringer("served", tier),
			)
		}
		return sample.Pick(candidates, src)
	}
	return nil, &NoCandidatesError{Category: cat, Tier: resolved}
}

// candidates filters the (cat, tier) pool by eligibility and applies
// manufacturer bias to receiver candidates.
func (c *Composer) candidates(cat Category, tier rarity.Tier, opts ComposeOptions) []sample.Candidate[*Def] {
	pool := c.pool.Parts(cat, tier)
	out := make([]sample.Candidate[*Def], 0, len(pool))
	for _, p := range pool {
		if opts.WorldDrop && !p.WorldDrop {
			continue
		}
		if opts.PlayerLevel > 0 && p.MinLevel > opts.PlayerLevel {
			continue
		}
		weight := p.Weight
		if cat == ManufacturerCategory && opts.Bias > 0 {
			for _, pref := range opts.Preferred {
				if p.Manufacturer == pref {
					weight *= opts.Bias
					break
				}
			}
		}
		out = append(out, sample.Candidate[*Def]{Value: p, Weight: weight})
	}
	return out
}

// ComposeUnique assembles the named unique identity: its fixed parts are
// used verbatim, randomized categories draw within the definition's bounds,
// and the effective rarity is raised to the definition's minimum when the
// part mean bands below it.
//
// Precondition: def must have passed Validate.
func (c *Composer) ComposeUnique(def *UniqueDef, playerLevel int, src rng.Source) (*Composed, error) {
	minTier, maxTier := def.RandMin, def.RandMax
	if !minTier.Valid() {
		minTier = rarity.TierCommon
	}
	if !maxTier.Valid() {
		maxTier = rarity.TierApocalypse
	}

	composed, err := c.Compose(ComposeOptions{
		Fixed:       def.Fixed,
		Omit:        def.Omit,
		MinTier:     minTier,
		MaxTier:     maxTier,
		Preferred:   def.Preferred,
		Bias:        def.Bias,
		PlayerLevel: playerLevel,
	}, src)
	if err != nil {
		return nil, fmt.Errorf("composing unique %s: %w", def.ID, err)
	}

	if composed.Rarity < def.MinRarity {
		composed.Rarity = def.MinRarity
	}
	return composed, nil
}

// effectiveRarity bands the mean of the chosen part tiers.
func effectiveRarity(chosen map[Category]*Def) rarity.Tier {
	if len(chosen) == 0 {
		return rarity.TierCommon
	}
	var sum float64
	for _, p := range chosen {
		sum += float64(p.Rarity)
	}
	mean := sum / float64(len(chosen))
	// Guard against 6.999999 style accumulation on all-Apocalypse builds.
	mean = math.Min(mean, float64(rarity.TierApocalypse))
	return rarity.FromMean(mean)
}
