package parts

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// DedicatedSource ties a unique weapon to one drop source with its own
// per-kill chance.
type DedicatedSource struct {
	SourceID string
	Chance   float64
}

// UniqueDef is the authored definition of a unique composite weapon:
// a named identity built from a mix of fixed and randomized parts.
type UniqueDef struct {
	ID   string
	Name string
	// MinRarity is the floor for the composed item's effective rarity.
	MinRarity rarity.Tier
	// Fixed pins a part per category; unset categories are randomized.
	// The receiver must always be fixed, since it carries the identity's
	// manufacturer.
	Fixed map[Category]*Def
	// Omit lists categories the weapon is built without.
	Omit []Category
	// RandMin and RandMax bound tier resolution for randomized categories.
	RandMin rarity.Tier
	RandMax rarity.Tier
	// Preferred re-weights receiver pool candidates toward these
	// manufacturers. Irrelevant while the receiver is fixed, but kept for
	// identities that randomize non-receiver manufacturer theming.
	Preferred []manufacturer.ID
	// Bias is the weight multiplier applied to preferred candidates.
	Bias float64
	// Sources lists the dedicated drop sources and their chances.
	Sources []DedicatedSource
}

// Validate checks the UniqueDef invariants.
//
// Precondition: u is non-nil.
// Postcondition: returns nil iff the definition is composable.
func (u *UniqueDef) Validate() error {
	var errs []error
	if u.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if u.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !u.MinRarity.Valid() {
		errs = append(errs, fmt.Errorf("min rarity %d is not a known tier", int(u.MinRarity)))
	}
	if len(u.Fixed) == 0 {
		errs = append(errs, errors.New("at least one category must be fixed"))
	}
	if _, ok := u.Fixed[ManufacturerCategory]; !ok {
		errs = append(errs, fmt.Errorf("the %s category must be fixed", ManufacturerCategory))
	}
	for cat, def := range u.Fixed {
		if def == nil {
			errs = append(errs, fmt.Errorf("fixed part for %s is nil", cat))
			continue
		}
		if def.Category != cat {
			errs = append(errs, fmt.Errorf("fixed part %s is a %s part, not %s", def.ID, def.Category, cat))
		}
	}
	for _, cat := range u.Omit {
		if cat == ManufacturerCategory {
			errs = append(errs, fmt.Errorf("the %s category cannot be omitted", ManufacturerCategory))
		}
		if _, ok := u.Fixed[cat]; ok {
			errs = append(errs, fmt.Errorf("category %s is both fixed and omitted", cat))
		}
	}
	if u.RandMin.Valid() && u.RandMax.Valid() && u.RandMin > u.RandMax {
		errs = append(errs, fmt.Errorf("randomization bounds inverted: min %s > max %s", u.RandMin, u.RandMax))
	}
	if u.Bias < 0 {
		errs = append(errs, fmt.Errorf("bias must not be negative, got %g", u.Bias))
	}
	for i, s := range u.Sources {
		if s.SourceID == "" {
			errs = append(errs, fmt.Errorf("dedicated source %d has no source id", i))
		}
		if s.Chance < 0 || s.Chance > 1 {
			errs = append(errs, fmt.Errorf("dedicated source %q chance must be in [0,1], got %g", s.SourceID, s.Chance))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("unique validation failed: %v", errs)
	}
	return nil
}
