package dataset

import (
	"sort"

	"github.com/cory-johannsen/lootforge/internal/game/loot"
	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/parts"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// Index is the immutable precomputed lookup structure engines roll against.
// BuildIndex is a pure function: hot reload means building a fresh Index
// from the re-authored dataset and swapping it in; concurrent rollers never
// observe a half-built one.
//
// Index satisfies loot.Index and parts.Pool.
type Index struct {
	tables        map[string]*loot.Table
	parts         map[parts.Category]map[rarity.Tier][]*parts.Def
	items         map[loot.ItemType]map[rarity.Tier][]*loot.ItemDef
	uniques       map[string]*parts.UniqueDef
	bySource      map[string][]*parts.UniqueDef
	manufacturers []manufacturer.Def
	rarityTable   *rarity.Table
	globalDist    rarity.Distribution
	floors        parts.Floors
}

var (
	_ loot.Index = (*Index)(nil)
	_ parts.Pool = (*Index)(nil)
)

// BuildIndex precomputes every lookup from the validated dataset. All pool
// slices are sorted by id so weighted sampling order — and therefore seeded
// replay — is stable regardless of authoring file order.
//
// Precondition: ds passed Validate.
// Postcondition: the returned Index is immutable and safe for concurrent
// readers.
func BuildIndex(ds *Dataset) *Index {
	idx := &Index{
		tables:      make(map[string]*loot.Table, len(ds.Tables)),
		parts:       make(map[parts.Category]map[rarity.Tier][]*parts.Def),
		items:       make(map[loot.ItemType]map[rarity.Tier][]*loot.ItemDef),
		uniques:     make(map[string]*parts.UniqueDef, len(ds.Uniques)),
		bySource:    make(map[string][]*parts.UniqueDef),
		rarityTable: ds.Rarity,
		globalDist:  ds.Rarity.Distribution().Normalize(),
		floors:      ds.Floors,
	}

	for _, t := range ds.Tables {
		idx.tables[t.ID] = t
	}

	for _, p := range ds.Parts {
		byTier, ok := idx.parts[p.Category]
		if !ok {
			byTier = make(map[rarity.Tier][]*parts.Def)
			idx.parts[p.Category] = byTier
		}
		byTier[p.Rarity] = append(byTier[p.Rarity], p)
	}
	for _, byTier := range idx.parts {
		for _, pool := range byTier {
			sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
		}
	}

	for _, item := range ds.Items {
		byTier, ok := idx.items[item.Type]
		if !ok {
			byTier = make(map[rarity.Tier][]*loot.ItemDef)
			idx.items[item.Type] = byTier
		}
		byTier[item.Rarity] = append(byTier[item.Rarity], item)
	}
	for _, byTier := range idx.items {
		for _, pool := range byTier {
			sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
		}
	}

	for _, u := range ds.Uniques {
		idx.uniques[u.ID] = u
		for _, src := range u.Sources {
			idx.bySource[src.SourceID] = append(idx.bySource[src.SourceID], u)
		}
	}
	for _, pool := range idx.bySource {
		sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	}

	idx.manufacturers = make([]manufacturer.Def, len(ds.Manufacturers))
	copy(idx.manufacturers, ds.Manufacturers)
	sort.Slice(idx.manufacturers, func(i, j int) bool {
		return idx.manufacturers[i].ID < idx.manufacturers[j].ID
	})

	return idx
}

// Table returns the table with the given id.
func (idx *Index) Table(id string) (*loot.Table, bool) {
	t, ok := idx.tables[id]
	return t, ok
}

// Tables returns every table id, sorted.
func (idx *Index) Tables() []string {
	ids := make([]string, 0, len(idx.tables))
	for id := range idx.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Parts returns the part pool for (cat, tier), sorted by part id.
func (idx *Index) Parts(cat parts.Category, tier rarity.Tier) []*parts.Def {
	return idx.parts[cat][tier]
}

// Items returns the item pool for (itemType, tier), sorted by item id.
func (idx *Index) Items(itemType loot.ItemType, tier rarity.Tier) []*loot.ItemDef {
	return idx.items[itemType][tier]
}

// Manufacturers returns all known manufacturers sorted by id.
func (idx *Index) Manufacturers() []manufacturer.Def {
	return idx.manufacturers
}

// Unique returns the unique definition with the given id.
func (idx *Index) Unique(id string) (*parts.UniqueDef, bool) {
	u, ok := idx.uniques[id]
	return u, ok
}

// UniquesFor returns the uniques dedicated to sourceID, sorted by id.
func (idx *Index) UniquesFor(sourceID string) []*parts.UniqueDef {
	return idx.bySource[sourceID]
}

// GlobalDistribution returns the normalized dataset-wide rarity
// distribution.
func (idx *Index) GlobalDistribution() rarity.Distribution {
	return idx.globalDist
}

// RarityTable returns the authored tier configuration.
func (idx *Index) RarityTable() *rarity.Table {
	return idx.rarityTable
}

// Floors returns the sub-type rarity floors.
func (idx *Index) Floors() parts.Floors {
	return idx.floors
}
