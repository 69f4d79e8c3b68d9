package loot

import (
	"fmt"

	"github.com/cory-johannsen/lootforge/internal/game/condition"
	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// NoLevelCap is the MaxLevel sentinel meaning "no upper level bound".
const NoLevelCap = 0

// Entry is one weighted candidate drop in a loot table.
type Entry struct {
	// Type tags what the entry produces.
	Type ItemType
	// ItemID optionally pins a specific item (an ItemDef id, or a
	// UniqueDef id for composite types). Empty means "roll a concrete item
	// from the (type, rarity) pool".
	ItemID string
	// Weight is the selection weight against sibling entries.
	Weight float64
	// BaseChance is the post-selection drop chance in [0,1], scaled by
	// (1+luck) at roll time. Guaranteed entries skip the chance gate.
	BaseChance float64
	// Guaranteed marks the entry eligible for the guaranteed-drop fallback
	// and exempt from the chance gate.
	Guaranteed bool
	// MinRarity and MaxRarity bound rarity resolution. Zero values default
	// to the full tier range.
	MinRarity rarity.Tier
	MaxRarity rarity.Tier
	// RarityWeights optionally overrides the table distribution for this
	// entry alone.
	RarityWeights *rarity.Distribution
	// ManufacturerWeights optionally overrides manufacturer selection for
	// this entry alone.
	ManufacturerWeights manufacturer.Weights
	// MinLevel and MaxLevel gate the entry on player level. MaxLevel ==
	// NoLevelCap means uncapped.
	MinLevel int
	MaxLevel int
	// MinQuantity and MaxQuantity bound the rolled quantity.
	MinQuantity int
	MaxQuantity int
	// Conditions must all be active for the entry to be eligible.
	Conditions condition.Flags
}

// rarityBounds returns the entry's rarity bounds with zero values defaulted
// to the full range.
func (e *Entry) rarityBounds() (rarity.Tier, rarity.Tier) {
	minTier, maxTier := e.MinRarity, e.MaxRarity
	if !minTier.Valid() {
		minTier = rarity.TierCommon
	}
	if !maxTier.Valid() {
		maxTier = rarity.TierApocalypse
	}
	return minTier, maxTier
}

// quantityBounds returns the entry's quantity bounds with zero values
// defaulted to a single item.
func (e *Entry) quantityBounds() (int, int) {
	minQ, maxQ := e.MinQuantity, e.MaxQuantity
	if minQ < 1 {
		minQ = 1
	}
	if maxQ < minQ {
		maxQ = minQ
	}
	return minQ, maxQ
}

// EligibleFor reports whether the entry may be selected for the given
// player level and active condition flags.
func (e *Entry) EligibleFor(playerLevel int, active condition.Flags) bool {
	if !condition.Satisfies(e.Conditions, active) {
		return false
	}
	if playerLevel < e.MinLevel {
		return false
	}
	if e.MaxLevel != NoLevelCap && playerLevel > e.MaxLevel {
		return false
	}
	return true
}

// Validate checks the Entry invariants. Violations are configuration-time
// errors reported to the authoring side, never runtime faults.
//
// Precondition: e is non-nil.
func (e *Entry) Validate() error {
	var errs []error
	if !e.Type.Valid() {
		errs = append(errs, fmt.Errorf("item type %d is not known", int(e.Type)))
	}
	if e.Weight < 0 {
		errs = append(errs, fmt.Errorf("weight must not be negative, got %g", e.Weight))
	}
	if e.BaseChance < 0 || e.BaseChance > 1 {
		errs = append(errs, fmt.Errorf("base chance must be in [0,1], got %g", e.BaseChance))
	}
	if e.MinRarity != 0 && !e.MinRarity.Valid() {
		errs = append(errs, fmt.Errorf("min rarity %d is not a known tier", int(e.MinRarity)))
	}
	if e.MaxRarity != 0 && !e.MaxRarity.Valid() {
		errs = append(errs, fmt.Errorf("max rarity %d is not a known tier", int(e.MaxRarity)))
	}
	if e.MinRarity.Valid() && e.MaxRarity.Valid() && e.MinRarity > e.MaxRarity {
		errs = append(errs, fmt.Errorf("rarity bounds inverted: min %s > max %s", e.MinRarity, e.MaxRarity))
	}
	if e.RarityWeights != nil {
		if err := e.RarityWeights.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("rarity override: %w", err))
		}
	}
	for id, w := range e.ManufacturerWeights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("manufacturer weight for %q must not be negative, got %g", id, w))
		}
	}
	if e.MinLevel < 0 {
		errs = append(errs, fmt.Errorf("min level must not be negative, got %d", e.MinLevel))
	}
	if e.MaxLevel != NoLevelCap && e.MaxLevel < e.MinLevel {
		errs = append(errs, fmt.Errorf("level bounds inverted: min %d > max %d", e.MinLevel, e.MaxLevel))
	}
	if e.MinQuantity < 0 {
		errs = append(errs, fmt.Errorf("min quantity must not be negative, got %d", e.MinQuantity))
	}
	if e.MaxQuantity != 0 && e.MaxQuantity < e.MinQuantity {
		errs = append(errs, fmt.Errorf("quantity bounds inverted: min %d > max %d", e.MinQuantity, e.MaxQuantity))
	}
	if len(errs) > 0 {
		return fmt.Errorf("entry validation failed: %v", errs)
	}
	return nil
}
