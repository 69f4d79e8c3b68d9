// Package dataset loads the authored loot configuration, validates it
// eagerly with authoring context, and builds the immutable index the
// engines roll against.
//
// The engine does not own the authoring format; these loaders consume the
// YAML the external tooling emits, one concern per directory.
package dataset

import (
	"fmt"

	"github.com/cory-johannsen/lootforge/internal/game/condition"
	"github.com/cory-johannsen/lootforge/internal/game/loot"
	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/parts"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// rarityFile is the YAML schema for rarities.yaml.
type rarityFile struct {
	Tiers []struct {
		Tier          string  `yaml:"tier"`
		Weight        float64 `yaml:"weight"`
		ImproveMinPct float64 `yaml:"improve_min_pct"`
		ImproveMaxPct float64 `yaml:"improve_max_pct"`
	} `yaml:"tiers"`
	Floors struct {
		Special string `yaml:"special"`
		Exotic  string `yaml:"exotic"`
	} `yaml:"floors"`
}

func (f *rarityFile) convert() (*rarity.Table, parts.Floors, error) {
	table := &rarity.Table{Info: make(map[rarity.Tier]rarity.TierInfo, len(f.Tiers))}
	for i, spec := range f.Tiers {
		tier, err := rarity.ParseTier(spec.Tier)
		if err != nil {
			return nil, parts.Floors{}, fmt.Errorf("tier %d: %w", i, err)
		}
		table.Info[tier] = rarity.TierInfo{
			Weight: spec.Weight,
			Improvement: rarity.StatRange{
				MinPct: spec.ImproveMinPct,
				MaxPct: spec.ImproveMaxPct,
			},
		}
	}

	floors := parts.DefaultFloors()
	if f.Floors.Special != "" {
		tier, err := rarity.ParseTier(f.Floors.Special)
		if err != nil {
			return nil, parts.Floors{}, fmt.Errorf("special floor: %w", err)
		}
		floors.Special = tier
	}
	if f.Floors.Exotic != "" {
		tier, err := rarity.ParseTier(f.Floors.Exotic)
		if err != nil {
			return nil, parts.Floors{}, fmt.Errorf("exotic floor: %w", err)
		}
		floors.Exotic = tier
	}
	return table, floors, nil
}

// manufacturerFile is the YAML schema for manufacturers.yaml. Manufacturers
// carry no default weight: selection without an entry or table override is
// uniform.
type manufacturerFile struct {
	Manufacturers []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"manufacturers"`
}

func (f *manufacturerFile) convert() []manufacturer.Def {
	out := make([]manufacturer.Def, 0, len(f.Manufacturers))
	for _, spec := range f.Manufacturers {
		out = append(out, manufacturer.Def{
			ID:   manufacturer.ID(spec.ID),
			Name: spec.Name,
		})
	}
	return out
}

// partFile is the YAML schema for one pool file under parts/. Pool files
// group parts however the authoring side prefers, typically by category.
type partFile struct {
	Parts []struct {
		ID           string  `yaml:"id"`
		Name         string  `yaml:"name"`
		Category     string  `yaml:"category"`
		Rarity       string  `yaml:"rarity"`
		SubType      string  `yaml:"sub_type"`
		Manufacturer string  `yaml:"manufacturer"`
		Weight       float64 `yaml:"weight"`
		MinLevel     int     `yaml:"min_level"`
		WorldDrop    bool    `yaml:"world_drop"`
	} `yaml:"parts"`
}

func (f *partFile) convert() ([]*parts.Def, error) {
	out := make([]*parts.Def, 0, len(f.Parts))
	for i, spec := range f.Parts {
		cat, err := parts.ParseCategory(spec.Category)
		if err != nil {
			return nil, fmt.Errorf("part %d (%s): %w", i, spec.ID, err)
		}
		tier, err := rarity.ParseTier(spec.Rarity)
		if err != nil {
			return nil, fmt.Errorf("part %d (%s): %w", i, spec.ID, err)
		}
		sub := parts.SubTypeStandard
		if spec.SubType != "" {
			sub, err = parts.ParseSubType(spec.SubType)
			if err != nil {
				return nil, fmt.Errorf("part %d (%s): %w", i, spec.ID, err)
			}
		}
		out = append(out, &parts.Def{
			ID:           spec.ID,
			Name:         spec.Name,
			Category:     cat,
			Rarity:       tier,
			SubType:      sub,
			Manufacturer: manufacturer.ID(spec.Manufacturer),
			Weight:       spec.Weight,
			MinLevel:     spec.MinLevel,
			WorldDrop:    spec.WorldDrop,
		})
	}
	return out, nil
}

// itemFile is the YAML schema for one pool file under items/.
type itemFile struct {
	Items []struct {
		ID       string  `yaml:"id"`
		Name     string  `yaml:"name"`
		Type     string  `yaml:"type"`
		Rarity   string  `yaml:"rarity"`
		Weight   float64 `yaml:"weight"`
		MinLevel int     `yaml:"min_level"`
	} `yaml:"items"`
}

func (f *itemFile) convert() ([]*loot.ItemDef, error) {
	out := make([]*loot.ItemDef, 0, len(f.Items))
	for i, spec := range f.Items {
		itemType, err := loot.ParseItemType(spec.Type)
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, spec.ID, err)
		}
		tier, err := rarity.ParseTier(spec.Rarity)
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, spec.ID, err)
		}
		out = append(out, &loot.ItemDef{
			ID:       spec.ID,
			Name:     spec.Name,
			Type:     itemType,
			Rarity:   tier,
			Weight:   spec.Weight,
			MinLevel: spec.MinLevel,
		})
	}
	return out, nil
}

// entrySpec is the YAML schema for one table entry.
type entrySpec struct {
	Type                string             `yaml:"type"`
	Item                string             `yaml:"item"`
	Weight              float64            `yaml:"weight"`
	BaseChance          *float64           `yaml:"base_chance"`
	Guaranteed          bool               `yaml:"guaranteed"`
	MinRarity           string             `yaml:"min_rarity"`
	MaxRarity           string             `yaml:"max_rarity"`
	RarityWeights       map[string]float64 `yaml:"rarity_weights"`
	ManufacturerWeights map[string]float64 `yaml:"manufacturer_weights"`
	MinLevel            int                `yaml:"min_level"`
	MaxLevel            int                `yaml:"max_level"`
	MinQuantity         int                `yaml:"min_quantity"`
	MaxQuantity         int                `yaml:"max_quantity"`
	Conditions          []string           `yaml:"conditions"`
}

func (s *entrySpec) convert() (*loot.Entry, error) {
	itemType, err := loot.ParseItemType(s.Type)
	if err != nil {
		return nil, err
	}

	entry := &loot.Entry{
		Type:        itemType,
		ItemID:      s.Item,
		Weight:      s.Weight,
		BaseChance:  1,
		Guaranteed:  s.Guaranteed,
		MinLevel:    s.MinLevel,
		MaxLevel:    s.MaxLevel,
		MinQuantity: s.MinQuantity,
		MaxQuantity: s.MaxQuantity,
	}
	if s.BaseChance != nil {
		entry.BaseChance = *s.BaseChance
	}

	if s.MinRarity != "" {
		if entry.MinRarity, err = rarity.ParseTier(s.MinRarity); err != nil {
			return nil, err
		}
	}
	if s.MaxRarity != "" {
		if entry.MaxRarity, err = rarity.ParseTier(s.MaxRarity); err != nil {
			return nil, err
		}
	}
	if len(s.RarityWeights) > 0 {
		dist, err := parseDistribution(s.RarityWeights)
		if err != nil {
			return nil, err
		}
		entry.RarityWeights = &dist
	}
	if len(s.ManufacturerWeights) > 0 {
		entry.ManufacturerWeights = parseManufacturerWeights(s.ManufacturerWeights)
	}
	if len(s.Conditions) > 0 {
		if entry.Conditions, err = condition.Parse(s.Conditions); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// tableFile is the YAML schema for one table file under tables/.
type tableFile struct {
	ID                  string             `yaml:"id"`
	Zone                string             `yaml:"zone"`
	Parent              string             `yaml:"parent"`
	MinDrops            int                `yaml:"min_drops"`
	MaxDrops            int                `yaml:"max_drops"`
	BonusDropChance     float64            `yaml:"bonus_drop_chance"`
	GuaranteedDrop      bool               `yaml:"guaranteed_drop"`
	AllowDuplicates     bool               `yaml:"allow_duplicates"`
	DedicatedUniques    *bool              `yaml:"dedicated_uniques"`
	MinPlayerLevel      int                `yaml:"min_player_level"`
	MinDifficulty       int                `yaml:"min_difficulty"`
	DifficultyThreshold int                `yaml:"difficulty_threshold"`
	RarityWeights       map[string]float64 `yaml:"rarity_weights"`
	ManufacturerWeights map[string]float64 `yaml:"manufacturer_weights"`
	Entries             []entrySpec        `yaml:"entries"`
	DifficultyEntries   []entrySpec        `yaml:"difficulty_entries"`
}

func (f *tableFile) convert() (*loot.Table, error) {
	table := &loot.Table{
		ID:                  f.ID,
		Zone:                f.Zone,
		ParentID:            f.Parent,
		MinDrops:            f.MinDrops,
		MaxDrops:            f.MaxDrops,
		BonusDropChance:     f.BonusDropChance,
		GuaranteedDrop:      f.GuaranteedDrop,
		AllowDuplicates:     f.AllowDuplicates,
		DedicatedUniques:    true,
		MinPlayerLevel:      f.MinPlayerLevel,
		MinDifficulty:       f.MinDifficulty,
		DifficultyThreshold: f.DifficultyThreshold,
	}
	if f.DedicatedUniques != nil {
		table.DedicatedUniques = *f.DedicatedUniques
	}
	if len(f.RarityWeights) > 0 {
		dist, err := parseDistribution(f.RarityWeights)
		if err != nil {
			return nil, err
		}
		table.Distribution = &dist
	}
	if len(f.ManufacturerWeights) > 0 {
		table.ManufacturerWeights = parseManufacturerWeights(f.ManufacturerWeights)
	}
	for i, spec := range f.Entries {
		entry, err := spec.convert()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		table.Entries = append(table.Entries, entry)
	}
	for i, spec := range f.DifficultyEntries {
		entry, err := spec.convert()
		if err != nil {
			return nil, fmt.Errorf("difficulty entry %d: %w", i, err)
		}
		table.DifficultyEntries = append(table.DifficultyEntries, entry)
	}
	return table, nil
}

// uniqueFile is the YAML schema for one unique definition under uniques/.
// Fixed parts reference pool parts by id; references resolve at load time.
type uniqueFile struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	MinRarity string            `yaml:"min_rarity"`
	Fixed     map[string]string `yaml:"fixed"`
	Omit      []string          `yaml:"omit"`
	RandMin   string            `yaml:"rand_min"`
	RandMax   string            `yaml:"rand_max"`
	Preferred []string          `yaml:"preferred"`
	Bias      float64           `yaml:"bias"`
	Sources   []struct {
		Source string  `yaml:"source"`
		Chance float64 `yaml:"chance"`
	} `yaml:"sources"`
}

func (f *uniqueFile) convert(partsByID map[string]*parts.Def) (*parts.UniqueDef, error) {
	def := &parts.UniqueDef{
		ID:   f.ID,
		Name: f.Name,
		Bias: f.Bias,
	}

	var err error
	if f.MinRarity != "" {
		if def.MinRarity, err = rarity.ParseTier(f.MinRarity); err != nil {
			return nil, err
		}
	}
	if f.RandMin != "" {
		if def.RandMin, err = rarity.ParseTier(f.RandMin); err != nil {
			return nil, err
		}
	}
	if f.RandMax != "" {
		if def.RandMax, err = rarity.ParseTier(f.RandMax); err != nil {
			return nil, err
		}
	}

	if len(f.Fixed) > 0 {
		def.Fixed = make(map[parts.Category]*parts.Def, len(f.Fixed))
		for catName, partID := range f.Fixed {
			cat, err := parts.ParseCategory(catName)
			if err != nil {
				return nil, err
			}
			part, ok := partsByID[partID]
			if !ok {
				return nil, fmt.Errorf("fixed %s part %q is not in any pool", cat, partID)
			}
			def.Fixed[cat] = part
		}
	}
	for _, catName := range f.Omit {
		cat, err := parts.ParseCategory(catName)
		if err != nil {
			return nil, err
		}
		def.Omit = append(def.Omit, cat)
	}
	for _, id := range f.Preferred {
		def.Preferred = append(def.Preferred, manufacturer.ID(id))
	}
	for _, s := range f.Sources {
		def.Sources = append(def.Sources, parts.DedicatedSource{SourceID: s.Source, Chance: s.Chance})
	}
	return def, nil
}

func parseDistribution(weights map[string]float64) (rarity.Distribution, error) {
	var dist rarity.Distribution
	for name, w := range weights {
		tier, err := rarity.ParseTier(name)
		if err != nil {
			return dist, err
		}
		dist[tier-1] = w
	}
	return dist, nil
}

func parseManufacturerWeights(weights map[string]float64) manufacturer.Weights {
	out := make(manufacturer.Weights, len(weights))
	for id, w := range weights {
		out[manufacturer.ID(id)] = w
	}
	return out
}
