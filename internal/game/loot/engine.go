package loot

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lootforge/internal/game/condition"
	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/parts"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
	"github.com/cory-johannsen/lootforge/internal/game/rng"
	"github.com/cory-johannsen/lootforge/internal/game/sample"
)

// NoCandidatesError reports an item pool that was empty at the resolved
// tier and at every step-down tier. Like its parts counterpart, it is an
// authoring gap surfaced to the caller, never a silent empty drop.
type NoCandidatesError struct {
	Type ItemType
	Tier rarity.Tier
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("loot: no %s candidates at %s or any lower tier", e.Type, e.Tier)
}

// Index serves the precomputed read-only lookups a roll needs. The dataset
// package builds one from the authored data; all slice results must be in a
// stable order for seeded replay.
type Index interface {
	// Table returns the table with the given id.
	Table(id string) (*Table, bool)
	// Items returns the concrete item pool for (itemType, tier).
	Items(itemType ItemType, tier rarity.Tier) []*ItemDef
	// Manufacturers returns every known manufacturer, sorted by id.
	Manufacturers() []manufacturer.Def
	// Unique returns the unique definition with the given id.
	Unique(id string) (*parts.UniqueDef, bool)
	// UniquesFor returns the uniques dedicated to sourceID, sorted by id.
	UniquesFor(sourceID string) []*parts.UniqueDef
	// GlobalDistribution returns the dataset-wide rarity distribution.
	GlobalDistribution() rarity.Distribution
}

// RollContext is the caller-supplied situation for one roll.
type RollContext struct {
	// SourceID identifies the event source (enemy type, container, quest).
	SourceID string
	// Zone identifies where the roll happens.
	Zone string
	// PlayerLevel is the rolling player's level, 1..MaxPlayerLevel.
	PlayerLevel int
	// Luck scales bonus and base chances by (1 + Luck); may be negative.
	Luck float64
	// DifficultyTier is the mayhem scalar, 0..MaxDifficultyTier.
	DifficultyTier int
	// ActiveFlags are the situational conditions in effect.
	ActiveFlags condition.Flags
}

// Engine resolves full rolls against an immutable index. Stateless across
// calls; safe for concurrent use as long as each call gets its own Source.
type Engine struct {
	idx      Index
	composer *parts.Composer
	logger   *zap.Logger
}

// NewEngine creates an Engine rolling against idx, composing weapons with
// composer, and logging degraded results to logger.
//
// Precondition: idx, composer, and logger must be non-nil.
func NewEngine(idx Index, composer *parts.Composer, logger *zap.Logger) *Engine {
	return &Engine{idx: idx, composer: composer, logger: logger}
}

// RollDrops resolves one full roll of table under ctx and returns the
// ordered drop list. Given a validated dataset the only possible errors are
// configuration gaps (empty pools); a well-formed table never fails.
//
// Precondition: table and src must be non-nil.
// Postcondition: with AllowDuplicates false, no two drops share an ItemID.
func (e *Engine) RollDrops(table *Table, ctx RollContext, src rng.Source) ([]Drop, error) {
	if ctx.PlayerLevel < table.MinPlayerLevel || ctx.DifficultyTier < table.MinDifficulty {
		return nil, nil
	}
	if table.Zone != "" && table.Zone != ctx.Zone {
		return nil, nil
	}

	entries := e.effectiveEntries(table, ctx)
	dropCount := e.dropCount(table, ctx, src)

	var drops []Drop
	for i := 0; i < dropCount; i++ {
		drop, ok, err := e.rollOne(table, entries, ctx, drops, src)
		if err != nil {
			return nil, err
		}
		if ok {
			drops = append(drops, drop)
		}
	}

	if len(drops) == 0 && table.GuaranteedDrop && len(entries) > 0 {
		drop, err := e.guaranteedPick(table, entries, ctx, src)
		if err != nil {
			return nil, err
		}
		drops = append(drops, drop)
	}

	if table.DedicatedUniques {
		dedicated, err := e.rollDedicated(ctx, src)
		if err != nil {
			return nil, err
		}
		drops = append(drops, dedicated...)
	}

	return drops, nil
}

// effectiveEntries unions the table's own entries with its parent's (single
// level) and its difficulty-exclusive entries when the tier threshold is met.
func (e *Engine) effectiveEntries(table *Table, ctx RollContext) []*Entry {
	entries := make([]*Entry, 0, len(table.Entries))
	entries = append(entries, table.Entries...)
	if table.ParentID != "" {
		if parent, ok := e.idx.Table(table.ParentID); ok {
			entries = append(entries, parent.Entries...)
		}
	}
	if len(table.DifficultyEntries) > 0 && ctx.DifficultyTier >= table.DifficultyThreshold {
		entries = append(entries, table.DifficultyEntries...)
	}
	return entries
}

// dropCount rolls the base count, the luck-scaled bonus drop, and the
// difficulty scaling of one extra roll per 3 tiers.
func (e *Engine) dropCount(table *Table, ctx RollContext, src rng.Source) int {
	count := rng.IntInRange(src, table.MinDrops, table.MaxDrops)
	if src.Float64() < clamp01(table.BonusDropChance*(1+ctx.Luck)) {
		count++
	}
	count += ctx.DifficultyTier / 3
	return count
}

// rollOne resolves a single iteration: filter, weighted pick, chance gate,
// full resolution, duplicate rejection with retry against the remaining
// pool. ok is false when the iteration legitimately produces nothing.
func (e *Engine) rollOne(table *Table, entries []*Entry, ctx RollContext, accumulated []Drop, src rng.Source) (Drop, bool, error) {
	pool := make([]sample.Candidate[*Entry], 0, len(entries))
	for _, entry := range entries {
		if !entry.EligibleFor(ctx.PlayerLevel, ctx.ActiveFlags) {
			continue
		}
		pool = append(pool, sample.Candidate[*Entry]{Value: entry, Weight: entry.Weight})
	}

	for len(pool) > 0 {
		i, err := sample.PickIndex(pool, src)
		if err != nil {
			return Drop{}, false, err
		}
		entry := pool[i].Value

		if !entry.Guaranteed && src.Float64() >= clamp01(entry.BaseChance*(1+ctx.Luck)) {
			return Drop{}, false, nil
		}

		drop, err := e.resolveEntry(table, entry, ctx, src)
		if err != nil {
			return Drop{}, false, err
		}

		if !table.AllowDuplicates && containsItem(accumulated, drop.ItemID) {
			pool = append(pool[:i], pool[i+1:]...)
			continue
		}
		return drop, true, nil
	}
	return Drop{}, false, nil
}

// guaranteedPick forces one drop: weighted among guaranteed-flagged entries,
// or uniform among all effective entries as the last resort. The chance gate
// does not apply.
func (e *Engine) guaranteedPick(table *Table, entries []*Entry, ctx RollContext, src rng.Source) (Drop, error) {
	guaranteed := make([]sample.Candidate[*Entry], 0, len(entries))
	for _, entry := range entries {
		if entry.Guaranteed {
			guaranteed = append(guaranteed, sample.Candidate[*Entry]{Value: entry, Weight: entry.Weight})
		}
	}

	var entry *Entry
	if len(guaranteed) > 0 {
		picked, err := sample.Pick(guaranteed, src)
		if err != nil {
			return Drop{}, err
		}
		entry = picked
	} else {
		entry = entries[src.Intn(len(entries))]
	}

	return e.resolveEntry(table, entry, ctx, src)
}

// resolveEntry turns a selected entry into a concrete Drop: rarity,
// quantity, item identity, and manufacturer.
func (e *Engine) resolveEntry(table *Table, entry *Entry, ctx RollContext, src rng.Source) (Drop, error) {
	dist := e.idx.GlobalDistribution()
	if table.Distribution != nil {
		dist = *table.Distribution
	}
	if entry.RarityWeights != nil {
		dist = *entry.RarityWeights
	}

	minTier, maxTier := entry.rarityBounds()
	tier := rarity.Resolve(dist, minTier, maxTier, src)

	minQ, maxQ := entry.quantityBounds()
	drop := Drop{
		Type:      entry.Type,
		Rarity:    tier,
		Quantity:  rng.IntInRange(src, minQ, maxQ),
		ItemLevel: itemLevel(ctx),
	}

	if entry.Type.Composite() {
		if err := e.resolveComposite(&drop, entry, ctx, src); err != nil {
			return Drop{}, err
		}
		return drop, nil
	}

	if err := e.resolveConcrete(&drop, entry, tier, ctx, src); err != nil {
		return Drop{}, err
	}
	if entry.Type.ManufacturerBearing() {
		m, err := e.resolveManufacturer(table, entry, src)
		if err != nil {
			return Drop{}, err
		}
		drop.Manufacturer = m
	}
	return drop, nil
}

// resolveComposite assembles a weapon: a pinned unique when the entry names
// one, otherwise an open-world composition pinned at the entry's resolved
// tier. Composite manufacturers come from the receiver part, not the
// manufacturer weight chain.
func (e *Engine) resolveComposite(drop *Drop, entry *Entry, ctx RollContext, src rng.Source) error {
	if entry.ItemID != "" {
		unique, ok := e.idx.Unique(entry.ItemID)
		if !ok {
			return fmt.Errorf("loot: entry names unknown unique %q", entry.ItemID)
		}
		composed, err := e.composer.ComposeUnique(unique, ctx.PlayerLevel, src)
		if err != nil {
			return err
		}
		drop.ItemID = unique.ID
		drop.Rarity = composed.Rarity
		drop.Manufacturer = composed.Manufacturer
		drop.Parts = composed.Parts
		return nil
	}

	composed, err := e.composer.Compose(parts.ComposeOptions{
		MinTier:     drop.Rarity,
		MaxTier:     drop.Rarity,
		WorldDrop:   true,
		PlayerLevel: ctx.PlayerLevel,
	}, src)
	if err != nil {
		return err
	}

	// Weapons are identified by their receiver; the composed rarity is the
	// banded part mean, which may sit below the pinned tier after pool
	// step-downs.
	drop.ItemID = weaponID(composed)
	drop.Rarity = composed.Rarity
	drop.Manufacturer = composed.Manufacturer
	drop.Parts = composed.Parts
	return nil
}

// resolveConcrete fills the drop's item id: a pinned id verbatim, otherwise
// a weighted pick from the (type, tier) pool with tier step-down on empty.
func (e *Engine) resolveConcrete(drop *Drop, entry *Entry, tier rarity.Tier, ctx RollContext, src rng.Source) error {
	if entry.ItemID != "" {
		drop.ItemID = entry.ItemID
		return nil
	}
	if !entry.Type.PoolBacked() {
		// Currency-like types have no authored item pool; the type is the
		// identity.
		drop.ItemID = entry.Type.String()
		return nil
	}

	for t := tier; t >= rarity.TierCommon; t-- {
		pool := e.idx.Items(entry.Type, t)
		candidates := make([]sample.Candidate[*ItemDef], 0, len(pool))
		for _, item := range pool {
			if item.MinLevel > ctx.PlayerLevel {
				continue
			}
			candidates = append(candidates, sample.Candidate[*ItemDef]{Value: item, Weight: item.Weight})
		}
		if len(candidates) == 0 {
			continue
		}
		if t < tier {
			e.logger.Warn("item pool degraded to lower tier",
				zap.Stringer("item_type", entry.Type),
				zap.Stringer("resolved", tier),
				zap.Stringer("served", t),
			)
		}
		item, err := sample.Pick(candidates, src)
		if err != nil {
			return err
		}
		drop.ItemID = item.ID
		drop.Rarity = t
		return nil
	}
	return &NoCandidatesError{Type: entry.Type, Tier: tier}
}

// resolveManufacturer picks a manufacturer with the override priority chain:
// entry weights, then table weights, then uniformly over all known
// manufacturers.
func (e *Engine) resolveManufacturer(table *Table, entry *Entry, src rng.Source) (manufacturer.ID, error) {
	override := entry.ManufacturerWeights
	if override == nil {
		override = table.ManufacturerWeights
	}
	candidates := manufacturer.Candidates(e.idx.Manufacturers(), override)
	if len(candidates) == 0 {
		return manufacturer.None, nil
	}
	return sample.Pick(candidates, src)
}

// rollDedicated rolls every unique dedicated to the context's source.
func (e *Engine) rollDedicated(ctx RollContext, src rng.Source) ([]Drop, error) {
	var drops []Drop
	for _, unique := range e.idx.UniquesFor(ctx.SourceID) {
		for _, dedicated := range unique.Sources {
			if dedicated.SourceID != ctx.SourceID {
				continue
			}
			if src.Float64() >= clamp01(dedicated.Chance*(1+ctx.Luck)) {
				continue
			}
			composed, err := e.composer.ComposeUnique(unique, ctx.PlayerLevel, src)
			if err != nil {
				return nil, err
			}
			drops = append(drops, Drop{
				Type:         ItemWeapon,
				ItemID:       unique.ID,
				Rarity:       composed.Rarity,
				Manufacturer: composed.Manufacturer,
				Quantity:     1,
				ItemLevel:    itemLevel(ctx),
				Parts:        composed.Parts,
			})
		}
	}
	return drops, nil
}

// itemLevel computes the drop's item level from the player level with a
// small difficulty bump, clamped to the level cap.
func itemLevel(ctx RollContext) int {
	level := ctx.PlayerLevel + ctx.DifficultyTier/5
	if level < 1 {
		level = 1
	}
	if level > MaxPlayerLevel {
		level = MaxPlayerLevel
	}
	return level
}

// weaponID derives the identity of an open-world composed weapon from its
// receiver part.
func weaponID(composed *parts.Composed) string {
	if receiver, ok := composed.Parts[parts.ManufacturerCategory]; ok {
		return "wpn_" + receiver.ID
	}
	return "wpn_unknown"
}

func containsItem(drops []Drop, itemID string) bool {
	for _, d := range drops {
		if d.ItemID == itemID {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
