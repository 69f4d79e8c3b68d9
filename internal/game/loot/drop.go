package loot

import (
	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/parts"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// Drop is one resolved drop record. Value type, created fresh per roll and
// owned solely by the caller; the engine keeps no reference to it.
type Drop struct {
	Type         ItemType
	ItemID       string
	Rarity       rarity.Tier
	Manufacturer manufacturer.ID
	Quantity     int
	ItemLevel    int
	// Parts holds the composed part selection for composite items; nil for
	// everything else.
	Parts map[parts.Category]*parts.Def
}
