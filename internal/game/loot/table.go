package loot

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// MaxDifficultyTier is the top of the difficulty/mayhem scale.
const MaxDifficultyTier = 10

// Table is a named set of weighted candidate drops tied to a source.
// Authored once by the external tooling; read-only during rolls.
type Table struct {
	ID string
	// Zone optionally restricts the table to one zone; empty means any.
	Zone string
	// ParentID names a table whose entries are unioned in (single level,
	// not overridden). Empty means no parent.
	ParentID string
	Entries  []*Entry
	// Distribution optionally overrides the dataset's global rarity
	// distribution for this table.
	Distribution *rarity.Distribution
	// MinDrops and MaxDrops bound the base drop count per roll.
	MinDrops int
	MaxDrops int
	// BonusDropChance grants one extra drop with probability
	// BonusDropChance * (1 + luck).
	BonusDropChance float64
	// DifficultyEntries join the candidate set only at or above
	// DifficultyThreshold.
	DifficultyEntries   []*Entry
	DifficultyThreshold int
	// GuaranteedDrop forces at least one drop when the weighted rolls all
	// come up empty.
	GuaranteedDrop bool
	// AllowDuplicates permits repeated item ids within one roll's results.
	AllowDuplicates bool
	// ManufacturerWeights optionally overrides manufacturer selection for
	// all entries without their own override.
	ManufacturerWeights manufacturer.Weights
	// MinPlayerLevel and MinDifficulty gate the whole table.
	MinPlayerLevel int
	MinDifficulty  int
	// DedicatedUniques enables dedicated-source unique rolls for this
	// table's source.
	DedicatedUniques bool
}

// Validate checks the table's own invariants and every entry's, reporting
// violations with the entry index for the authoring side.
//
// Precondition: t is non-nil. Cross-table checks (parent existence, cycles)
// belong to dataset validation.
func (t *Table) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if t.ParentID == t.ID && t.ID != "" {
		errs = append(errs, fmt.Errorf("table %q lists itself as its own parent", t.ID))
	}
	if t.MinDrops < 0 {
		errs = append(errs, fmt.Errorf("min drops must not be negative, got %d", t.MinDrops))
	}
	if t.MaxDrops < t.MinDrops {
		errs = append(errs, fmt.Errorf("drop count bounds inverted: min %d > max %d", t.MinDrops, t.MaxDrops))
	}
	if t.BonusDropChance < 0 || t.BonusDropChance > 1 {
		errs = append(errs, fmt.Errorf("bonus drop chance must be in [0,1], got %g", t.BonusDropChance))
	}
	if t.DifficultyThreshold < 0 || t.DifficultyThreshold > MaxDifficultyTier {
		errs = append(errs, fmt.Errorf("difficulty threshold must be in [0,%d], got %d", MaxDifficultyTier, t.DifficultyThreshold))
	}
	if t.MinDifficulty < 0 || t.MinDifficulty > MaxDifficultyTier {
		errs = append(errs, fmt.Errorf("min difficulty must be in [0,%d], got %d", MaxDifficultyTier, t.MinDifficulty))
	}
	if t.MinPlayerLevel < 0 || t.MinPlayerLevel > MaxPlayerLevel {
		errs = append(errs, fmt.Errorf("min player level must be in [0,%d], got %d", MaxPlayerLevel, t.MinPlayerLevel))
	}
	if t.Distribution != nil {
		if err := t.Distribution.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("distribution override: %w", err))
		}
	}
	for id, w := range t.ManufacturerWeights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("manufacturer weight for %q must not be negative, got %g", id, w))
		}
	}
	for i, e := range t.Entries {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
		}
	}
	for i, e := range t.DifficultyEntries {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("difficulty entry %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("table %q validation failed: %v", t.ID, errs)
	}
	return nil
}
