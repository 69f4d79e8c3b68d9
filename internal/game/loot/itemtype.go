// Package loot defines loot tables, their weighted entries, the drop records
// a roll produces, and the engine that resolves a full roll.
package loot

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// MaxPlayerLevel is the level cap; computed item levels clamp to it.
const MaxPlayerLevel = 50

// ItemType tags what kind of item a table entry produces. The set is
// closed; switches over ItemType are exhaustive.
type ItemType int

const (
	ItemWeapon ItemType = iota + 1
	ItemShield
	ItemGrenadeMod
	ItemClassMod
	ItemArtifact
	ItemAmmo
	ItemHealth
	ItemMoney
	ItemEridium
)

var itemTypeNames = map[ItemType]string{
	ItemWeapon:     "weapon",
	ItemShield:     "shield",
	ItemGrenadeMod: "grenade_mod",
	ItemClassMod:   "class_mod",
	ItemArtifact:   "artifact",
	ItemAmmo:       "ammo",
	ItemHealth:     "health",
	ItemMoney:      "money",
	ItemEridium:    "eridium",
}

// String returns the lowercase type name, or "itemtype(<n>)" for invalid
// values.
func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("itemtype(%d)", int(t))
}

// Valid reports whether t is a defined item type.
func (t ItemType) Valid() bool {
	_, ok := itemTypeNames[t]
	return ok
}

// ParseItemType converts a lowercase type name to its ItemType.
func ParseItemType(name string) (ItemType, error) {
	for t, n := range itemTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("loot: unknown item type %q", name)
}

// Composite reports whether items of this type are assembled from parts.
func (t ItemType) Composite() bool {
	return t == ItemWeapon
}

// ManufacturerBearing reports whether items of this type carry a
// manufacturer identity.
func (t ItemType) ManufacturerBearing() bool {
	switch t {
	case ItemWeapon, ItemShield, ItemGrenadeMod, ItemClassMod, ItemArtifact:
		return true
	case ItemAmmo, ItemHealth, ItemMoney, ItemEridium:
		return false
	default:
		return false
	}
}

// PoolBacked reports whether concrete items of this type come from authored
// ItemDef pools. Composite types compose from parts; currency-like types
// (ammo, health, money, eridium) have no per-item identity at all.
func (t ItemType) PoolBacked() bool {
	switch t {
	case ItemShield, ItemGrenadeMod, ItemClassMod, ItemArtifact:
		return true
	case ItemWeapon, ItemAmmo, ItemHealth, ItemMoney, ItemEridium:
		return false
	default:
		return false
	}
}

// ItemDef is a concrete non-composite item authored in the dataset. Pools
// of ItemDefs by (type, tier) back entries that name a type but no specific
// item.
type ItemDef struct {
	ID       string
	Name     string
	Type     ItemType
	Rarity   rarity.Tier
	Weight   float64
	MinLevel int
}

// Validate checks the ItemDef invariants.
//
// Precondition: d is non-nil.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if !d.Type.Valid() {
		errs = append(errs, fmt.Errorf("type %d is not known", int(d.Type)))
	}
	if d.Type.Valid() && !d.Type.PoolBacked() {
		errs = append(errs, fmt.Errorf("%s items are not pool-backed and cannot be authored directly", d.Type))
	}
	if !d.Rarity.Valid() {
		errs = append(errs, fmt.Errorf("rarity %d is not a known tier", int(d.Rarity)))
	}
	if d.Weight < 0 {
		errs = append(errs, fmt.Errorf("weight must not be negative, got %g", d.Weight))
	}
	if d.MinLevel < 0 {
		errs = append(errs, fmt.Errorf("min level must not be negative, got %d", d.MinLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}
