package parts

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// SubType is the part's quality sub-tier within its rarity.
type SubType int

const (
	SubTypeStandard SubType = iota + 1
	SubTypeSpecial
	SubTypeExotic
)

// String returns the lowercase sub-type name, or "subtype(<n>)" for invalid
// values.
func (s SubType) String() string {
	switch s {
	case SubTypeStandard:
		return "standard"
	case SubTypeSpecial:
		return "special"
	case SubTypeExotic:
		return "exotic"
	default:
		return fmt.Sprintf("subtype(%d)", int(s))
	}
}

// Valid reports whether s is a defined sub-type.
func (s SubType) Valid() bool {
	return s >= SubTypeStandard && s <= SubTypeExotic
}

// ParseSubType converts a lowercase sub-type name to its SubType.
func ParseSubType(name string) (SubType, error) {
	for _, s := range []SubType{SubTypeStandard, SubTypeSpecial, SubTypeExotic} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("parts: unknown sub-type name %q", name)
}

// Floors holds the minimum rarity at which each elevated sub-type may exist.
// A Standard part may exist at any tier.
type Floors struct {
	Special rarity.Tier
	Exotic  rarity.Tier
}

// DefaultFloors returns the canonical sub-type floors: Special parts require
// Rare or better, Exotic parts require Legendary or better.
func DefaultFloors() Floors {
	return Floors{Special: rarity.TierRare, Exotic: rarity.TierLegendary}
}

// Minimum returns the floor tier for sub-type s.
func (f Floors) Minimum(s SubType) rarity.Tier {
	switch s {
	case SubTypeSpecial:
		return f.Special
	case SubTypeExotic:
		return f.Exotic
	default:
		return rarity.TierCommon
	}
}

// Def defines one interchangeable weapon part loaded from the authored
// dataset. Read-only during rolls.
type Def struct {
	ID       string
	Name     string
	Category Category
	Rarity   rarity.Tier
	SubType  SubType
	// Manufacturer is only meaningful for the receiver category; parts in
	// other slots leave it empty.
	Manufacturer manufacturer.ID
	Weight       float64
	MinLevel     int
	// WorldDrop marks the part eligible for open-world (non-dedicated)
	// composition rolls.
	WorldDrop bool
}

// Validate checks the Def invariants against the given sub-type floors.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate(floors Floors) error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if !d.Category.Valid() {
		errs = append(errs, fmt.Errorf("category %d is not a known slot", int(d.Category)))
	}
	if !d.Rarity.Valid() {
		errs = append(errs, fmt.Errorf("rarity %d is not a known tier", int(d.Rarity)))
	}
	if !d.SubType.Valid() {
		errs = append(errs, fmt.Errorf("sub-type %d is not known", int(d.SubType)))
	}
	if d.SubType.Valid() && d.Rarity.Valid() && d.Rarity < floors.Minimum(d.SubType) {
		errs = append(errs, fmt.Errorf("%s sub-type requires rarity >= %s, got %s",
			d.SubType, floors.Minimum(d.SubType), d.Rarity))
	}
	if d.Category != ManufacturerCategory && d.Manufacturer != manufacturer.None {
		errs = append(errs, fmt.Errorf("manufacturer is only meaningful on %s parts", ManufacturerCategory))
	}
	if d.Category == ManufacturerCategory && d.Manufacturer == manufacturer.None {
		errs = append(errs, errors.New("receiver parts must name a manufacturer"))
	}
	if d.Weight < 0 {
		errs = append(errs, fmt.Errorf("weight must not be negative, got %g", d.Weight))
	}
	if d.MinLevel < 0 {
		errs = append(errs, fmt.Errorf("min level must not be negative, got %d", d.MinLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("part validation failed: %v", errs)
	}
	return nil
}
