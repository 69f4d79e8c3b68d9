package loot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lootforge/internal/game/condition"
	"github.com/cory-johannsen/lootforge/internal/game/loot"
	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/parts"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
	"github.com/cory-johannsen/lootforge/internal/game/rng"
)

// fakeIndex is an in-memory loot.Index and parts.Pool for engine tests.
type fakeIndex struct {
	tables   map[string]*loot.Table
	items    map[loot.ItemType]map[rarity.Tier][]*loot.ItemDef
	mfrs     []manufacturer.Def
	uniques  map[string]*parts.UniqueDef
	bySource map[string][]*parts.UniqueDef
	partPool map[parts.Category]map[rarity.Tier][]*parts.Def
	dist     rarity.Distribution
}

var (
	_ loot.Index = (*fakeIndex)(nil)
	_ parts.Pool = (*fakeIndex)(nil)
)

func (f *fakeIndex) Table(id string) (*loot.Table, bool) {
	t, ok := f.tables[id]
	return t, ok
}

func (f *fakeIndex) Items(itemType loot.ItemType, tier rarity.Tier) []*loot.ItemDef {
	return f.items[itemType][tier]
}

func (f *fakeIndex) Manufacturers() []manufacturer.Def { return f.mfrs }

func (f *fakeIndex) Unique(id string) (*parts.UniqueDef, bool) {
	u, ok := f.uniques[id]
	return u, ok
}

func (f *fakeIndex) UniquesFor(sourceID string) []*parts.UniqueDef {
	return f.bySource[sourceID]
}

func (f *fakeIndex) GlobalDistribution() rarity.Distribution { return f.dist }

func (f *fakeIndex) Parts(cat parts.Category, tier rarity.Tier) []*parts.Def {
	return f.partPool[cat][tier]
}

func (f *fakeIndex) addItem(item *loot.ItemDef) {
	byTier := f.items[item.Type]
	if byTier == nil {
		byTier = make(map[rarity.Tier][]*loot.ItemDef)
		f.items[item.Type] = byTier
	}
	byTier[item.Rarity] = append(byTier[item.Rarity], item)
}

func (f *fakeIndex) addPart(def *parts.Def) {
	byTier := f.partPool[def.Category]
	if byTier == nil {
		byTier = make(map[rarity.Tier][]*parts.Def)
		f.partPool[def.Category] = byTier
	}
	byTier[def.Rarity] = append(byTier[def.Rarity], def)
}

// newFakeIndex builds an index with a uniform rarity distribution, two
// manufacturers, and a full Common-tier part pool for weapon composition.
func newFakeIndex() *fakeIndex {
	idx := &fakeIndex{
		tables:   make(map[string]*loot.Table),
		items:    make(map[loot.ItemType]map[rarity.Tier][]*loot.ItemDef),
		uniques:  make(map[string]*parts.UniqueDef),
		bySource: make(map[string][]*parts.UniqueDef),
		partPool: make(map[parts.Category]map[rarity.Tier][]*parts.Def),
		mfrs: []manufacturer.Def{
			{ID: "ferros", Name: "Ferros Arms"},
			{ID: "voltaic", Name: "Voltaic"},
		},
	}
	for i := range idx.dist {
		idx.dist[i] = 1
	}

	idx.addPart(&parts.Def{
		ID: "rcv_basic", Category: parts.CategoryReceiver, Rarity: rarity.TierCommon,
		SubType: parts.SubTypeStandard, Manufacturer: "ferros", Weight: 1, WorldDrop: true,
	})
	for _, cat := range parts.Categories()[1:] {
		idx.addPart(&parts.Def{
			ID: cat.String() + "_basic", Category: cat, Rarity: rarity.TierCommon,
			SubType: parts.SubTypeStandard, Weight: 1, WorldDrop: true,
		})
	}
	return idx
}

func newEngine(idx *fakeIndex) *loot.Engine {
	composer := parts.NewComposer(idx, idx.GlobalDistribution(), zap.NewNop())
	return loot.NewEngine(idx, composer, zap.NewNop())
}

func shieldItem(id string, tier rarity.Tier) *loot.ItemDef {
	return &loot.ItemDef{ID: id, Name: id, Type: loot.ItemShield, Rarity: tier, Weight: 1}
}

func baseContext() loot.RollContext {
	return loot.RollContext{SourceID: "bandit_raider", PlayerLevel: 30}
}

func TestRollDrops_GuaranteedSingleEntry(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))
	for _, tier := range rarity.All() {
		idx.addItem(shieldItem("shd_"+tier.String(), tier))
	}

	table := &loot.Table{
		ID:       "single",
		Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, Guaranteed: true}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	for i := 0; i < 200; i++ {
		drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(int64(i)))
		require.NoError(t, err)
		require.Len(t, drops, 1, "a single guaranteed entry must drop exactly once")
		assert.Equal(t, loot.ItemShield, drops[0].Type)
		assert.True(t, strings.HasPrefix(drops[0].ItemID, "shd_"))
		assert.Equal(t, 1, drops[0].Quantity)
	}
}

func TestRollDrops_DifficultyScalesDropCount(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))

	table := &loot.Table{
		ID:       "scaled",
		Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, Guaranteed: true}},
		MinDrops: 1, MaxDrops: 1,
		AllowDuplicates: true,
	}
	engine := newEngine(idx)

	ctx := baseContext()
	ctx.DifficultyTier = 9

	for i := 0; i < 100; i++ {
		drops, err := engine.RollDrops(table, ctx, rng.NewSeededSource(int64(i)))
		require.NoError(t, err)
		assert.Len(t, drops, 4, "difficulty tier 9 adds three extra rolls")
	}
}

func TestRollDrops_NoDuplicatesByDefault(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))
	idx.addItem(shieldItem("shd_b", rarity.TierCommon))

	table := &loot.Table{
		ID:       "dedup",
		Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, Guaranteed: true, MaxRarity: rarity.TierCommon}},
		MinDrops: 5, MaxDrops: 5,
	}
	engine := newEngine(idx)

	for i := 0; i < 100; i++ {
		drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(int64(i)))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(drops), 2, "only two distinct shields exist")

		seen := make(map[string]bool)
		for _, d := range drops {
			assert.False(t, seen[d.ItemID], "duplicate item %s in one roll", d.ItemID)
			seen[d.ItemID] = true
		}
	}
}

func TestRollDrops_AllowDuplicates(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))

	table := &loot.Table{
		ID:       "dupes",
		Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, Guaranteed: true}},
		MinDrops: 3, MaxDrops: 3,
		AllowDuplicates: true,
	}
	engine := newEngine(idx)

	drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(1))
	require.NoError(t, err)
	assert.Len(t, drops, 3)
	for _, d := range drops {
		assert.Equal(t, "shd_a", d.ItemID)
	}
}

func TestRollDrops_SeedDeterminism(t *testing.T) {
	idx := newFakeIndex()
	for _, tier := range rarity.All() {
		idx.addItem(shieldItem("shd_"+tier.String(), tier))
	}

	table := &loot.Table{
		ID: "deterministic",
		Entries: []*loot.Entry{
			{Type: loot.ItemShield, Weight: 3, Guaranteed: true},
			{Type: loot.ItemWeapon, Weight: 2, Guaranteed: true},
			{Type: loot.ItemMoney, Weight: 1, Guaranteed: true, MinQuantity: 10, MaxQuantity: 99},
		},
		MinDrops: 2, MaxDrops: 4,
		AllowDuplicates: true,
		BonusDropChance: 0.5,
	}
	engine := newEngine(idx)

	first, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(77))
	require.NoError(t, err)
	second, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(77))
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical seeds must replay identically")
}

func TestRollDrops_TableGates(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))
	engine := newEngine(idx)

	entries := []*loot.Entry{{Type: loot.ItemShield, Weight: 1, Guaranteed: true}}

	t.Run("player level below minimum", func(t *testing.T) {
		table := &loot.Table{ID: "gated", Entries: entries, MinDrops: 1, MaxDrops: 1, MinPlayerLevel: 40}
		drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(1))
		require.NoError(t, err)
		assert.Empty(t, drops)
	})

	t.Run("difficulty below minimum", func(t *testing.T) {
		table := &loot.Table{ID: "gated", Entries: entries, MinDrops: 1, MaxDrops: 1, MinDifficulty: 3}
		drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(1))
		require.NoError(t, err)
		assert.Empty(t, drops)
	})

	t.Run("zone mismatch", func(t *testing.T) {
		table := &loot.Table{ID: "gated", Entries: entries, MinDrops: 1, MaxDrops: 1, Zone: "sunken_quarry"}
		ctx := baseContext()
		ctx.Zone = "ashfall_ridge"
		drops, err := engine.RollDrops(table, ctx, rng.NewSeededSource(1))
		require.NoError(t, err)
		assert.Empty(t, drops)
	})

	t.Run("zone match", func(t *testing.T) {
		table := &loot.Table{ID: "gated", Entries: entries, MinDrops: 1, MaxDrops: 1, Zone: "sunken_quarry"}
		ctx := baseContext()
		ctx.Zone = "sunken_quarry"
		drops, err := engine.RollDrops(table, ctx, rng.NewSeededSource(1))
		require.NoError(t, err)
		assert.Len(t, drops, 1)
	})
}

func TestRollDrops_ParentEntriesUnioned(t *testing.T) {
	idx := newFakeIndex()
	idx.tables["world_base"] = &loot.Table{
		ID:      "world_base",
		Entries: []*loot.Entry{{Type: loot.ItemMoney, Weight: 1, Guaranteed: true}},
	}

	child := &loot.Table{
		ID:       "child",
		ParentID: "world_base",
		MinDrops: 1, MaxDrops: 1,
		AllowDuplicates: true,
	}
	engine := newEngine(idx)

	drops, err := engine.RollDrops(child, baseContext(), rng.NewSeededSource(1))
	require.NoError(t, err)
	require.Len(t, drops, 1, "the parent's entries must be selectable from the child")
	assert.Equal(t, loot.ItemMoney, drops[0].Type)
	assert.Equal(t, "money", drops[0].ItemID)
}

func TestRollDrops_DifficultyEntriesGated(t *testing.T) {
	idx := newFakeIndex()
	table := &loot.Table{
		ID:       "mayhem",
		MinDrops: 1, MaxDrops: 1,
		DifficultyEntries:   []*loot.Entry{{Type: loot.ItemEridium, Weight: 1, Guaranteed: true}},
		DifficultyThreshold: 6,
		AllowDuplicates:     true,
	}
	engine := newEngine(idx)

	ctx := baseContext()
	ctx.DifficultyTier = 5
	drops, err := engine.RollDrops(table, ctx, rng.NewSeededSource(1))
	require.NoError(t, err)
	assert.Empty(t, drops, "below the threshold the exclusive entries stay out")

	ctx.DifficultyTier = 6
	drops, err = engine.RollDrops(table, ctx, rng.NewSeededSource(1))
	require.NoError(t, err)
	require.NotEmpty(t, drops)
	assert.Equal(t, loot.ItemEridium, drops[0].Type)
}

func TestRollDrops_ConditionFilter(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))

	table := &loot.Table{
		ID: "conditional",
		Entries: []*loot.Entry{{
			Type: loot.ItemShield, Weight: 1, Guaranteed: true,
			Conditions: condition.FlagFirstKill,
		}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(1))
	require.NoError(t, err)
	assert.Empty(t, drops)

	ctx := baseContext()
	ctx.ActiveFlags = condition.FlagFirstKill | condition.FlagCoOp
	drops, err = engine.RollDrops(table, ctx, rng.NewSeededSource(1))
	require.NoError(t, err)
	assert.Len(t, drops, 1)
}

func TestRollDrops_EntryLevelBounds(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))

	table := &loot.Table{
		ID: "leveled",
		Entries: []*loot.Entry{{
			Type: loot.ItemShield, Weight: 1, Guaranteed: true,
			MinLevel: 10, MaxLevel: 20,
		}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	for level, want := range map[int]int{5: 0, 10: 1, 20: 1, 21: 0} {
		ctx := baseContext()
		ctx.PlayerLevel = level
		drops, err := engine.RollDrops(table, ctx, rng.NewSeededSource(1))
		require.NoError(t, err)
		assert.Len(t, drops, want, "player level %d", level)
	}
}

func TestRollDrops_ChanceGateAndGuaranteedFallback(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))

	t.Run("zero chance produces nothing", func(t *testing.T) {
		table := &loot.Table{
			ID:       "stingy",
			Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, BaseChance: 0}},
			MinDrops: 1, MaxDrops: 1,
		}
		engine := newEngine(idx)
		for i := 0; i < 50; i++ {
			drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(int64(i)))
			require.NoError(t, err)
			assert.Empty(t, drops)
		}
	})

	t.Run("guaranteed fallback forces one drop", func(t *testing.T) {
		table := &loot.Table{
			ID:       "boss",
			Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, BaseChance: 0}},
			MinDrops: 1, MaxDrops: 1,
			GuaranteedDrop: true,
		}
		engine := newEngine(idx)
		for i := 0; i < 50; i++ {
			drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(int64(i)))
			require.NoError(t, err)
			assert.Len(t, drops, 1, "the fallback skips the chance gate")
		}
	})

	t.Run("luck saturates the chance", func(t *testing.T) {
		table := &loot.Table{
			ID:       "lucky",
			Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, BaseChance: 0.5}},
			MinDrops: 1, MaxDrops: 1,
		}
		engine := newEngine(idx)
		ctx := baseContext()
		ctx.Luck = 1.0
		for i := 0; i < 50; i++ {
			drops, err := engine.RollDrops(table, ctx, rng.NewSeededSource(int64(i)))
			require.NoError(t, err)
			assert.Len(t, drops, 1, "0.5 * (1 + 1.0) clamps to certainty")
		}
	})
}

func TestRollDrops_CompositeWeaponShape(t *testing.T) {
	idx := newFakeIndex()
	table := &loot.Table{
		ID:       "armory",
		Entries:  []*loot.Entry{{Type: loot.ItemWeapon, Weight: 1, Guaranteed: true}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(11))
	require.NoError(t, err)
	require.Len(t, drops, 1)

	weapon := drops[0]
	assert.Equal(t, loot.ItemWeapon, weapon.Type)
	assert.Equal(t, "wpn_rcv_basic", weapon.ItemID)
	assert.Equal(t, manufacturer.ID("ferros"), weapon.Manufacturer)
	assert.Len(t, weapon.Parts, parts.CategoryCount)
	// The only authored parts are Common, so the banded mean is Common.
	assert.Equal(t, rarity.TierCommon, weapon.Rarity)
}

func TestRollDrops_ItemPoolStepDown(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_common", rarity.TierCommon))

	table := &loot.Table{
		ID: "degraded",
		Entries: []*loot.Entry{{
			Type: loot.ItemShield, Weight: 1, Guaranteed: true,
			MinRarity: rarity.TierEpic, MaxRarity: rarity.TierEpic,
		}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(1))
	require.NoError(t, err)
	require.Len(t, drops, 1)
	assert.Equal(t, "shd_common", drops[0].ItemID)
	assert.Equal(t, rarity.TierCommon, drops[0].Rarity,
		"the drop reports the tier actually served")
}

func TestRollDrops_EmptyItemPoolErrors(t *testing.T) {
	idx := newFakeIndex()
	table := &loot.Table{
		ID:       "broken",
		Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, Guaranteed: true}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	_, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(1))
	require.Error(t, err)
	var noCandidates *loot.NoCandidatesError
	assert.ErrorAs(t, err, &noCandidates)
}

func TestRollDrops_CurrencyEntries(t *testing.T) {
	idx := newFakeIndex()
	table := &loot.Table{
		ID: "cash",
		Entries: []*loot.Entry{{
			Type: loot.ItemMoney, Weight: 1, Guaranteed: true,
			MinQuantity: 50, MaxQuantity: 100,
		}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	for i := 0; i < 50; i++ {
		drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(int64(i)))
		require.NoError(t, err)
		require.Len(t, drops, 1)
		assert.Equal(t, "money", drops[0].ItemID)
		assert.Equal(t, manufacturer.None, drops[0].Manufacturer)
		assert.GreaterOrEqual(t, drops[0].Quantity, 50)
		assert.LessOrEqual(t, drops[0].Quantity, 100)
	}
}

func TestRollDrops_PinnedUnique(t *testing.T) {
	idx := newFakeIndex()
	idx.uniques["emberwake"] = &parts.UniqueDef{
		ID: "emberwake", Name: "Emberwake", MinRarity: rarity.TierLegendary,
		Fixed: map[parts.Category]*parts.Def{
			parts.CategoryReceiver: {
				ID: "rcv_ember", Category: parts.CategoryReceiver,
				Rarity: rarity.TierLegendary, SubType: parts.SubTypeStandard,
				Manufacturer: "voltaic", Weight: 1,
			},
		},
	}

	table := &loot.Table{
		ID:       "raid",
		Entries:  []*loot.Entry{{Type: loot.ItemWeapon, ItemID: "emberwake", Weight: 1, Guaranteed: true}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(3))
	require.NoError(t, err)
	require.Len(t, drops, 1)
	assert.Equal(t, "emberwake", drops[0].ItemID)
	assert.Equal(t, manufacturer.ID("voltaic"), drops[0].Manufacturer)
	assert.GreaterOrEqual(t, drops[0].Rarity, rarity.TierLegendary)
}

func TestRollDrops_UnknownUnique(t *testing.T) {
	idx := newFakeIndex()
	table := &loot.Table{
		ID:       "typo",
		Entries:  []*loot.Entry{{Type: loot.ItemWeapon, ItemID: "no_such_unique", Weight: 1, Guaranteed: true}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	_, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(1))
	assert.ErrorContains(t, err, "no_such_unique")
}

func TestRollDrops_DedicatedUniques(t *testing.T) {
	idx := newFakeIndex()
	certain := &parts.UniqueDef{
		ID: "emberwake", Name: "Emberwake", MinRarity: rarity.TierLegendary,
		Fixed: map[parts.Category]*parts.Def{
			parts.CategoryReceiver: {
				ID: "rcv_ember", Category: parts.CategoryReceiver,
				Rarity: rarity.TierLegendary, SubType: parts.SubTypeStandard,
				Manufacturer: "voltaic", Weight: 1,
			},
		},
		Sources: []parts.DedicatedSource{{SourceID: "boss_razorback", Chance: 1.0}},
	}
	never := &parts.UniqueDef{
		ID: "stormcaller", Name: "Stormcaller", MinRarity: rarity.TierLegendary,
		Fixed: map[parts.Category]*parts.Def{
			parts.CategoryReceiver: {
				ID: "rcv_storm", Category: parts.CategoryReceiver,
				Rarity: rarity.TierLegendary, SubType: parts.SubTypeStandard,
				Manufacturer: "ferros", Weight: 1,
			},
		},
		Sources: []parts.DedicatedSource{{SourceID: "boss_razorback", Chance: 0}},
	}
	idx.bySource["boss_razorback"] = []*parts.UniqueDef{certain, never}

	table := &loot.Table{ID: "boss", DedicatedUniques: true}
	engine := newEngine(idx)

	ctx := baseContext()
	ctx.SourceID = "boss_razorback"

	for i := 0; i < 50; i++ {
		drops, err := engine.RollDrops(table, ctx, rng.NewSeededSource(int64(i)))
		require.NoError(t, err)
		require.Len(t, drops, 1)
		assert.Equal(t, "emberwake", drops[0].ItemID)
		assert.Equal(t, loot.ItemWeapon, drops[0].Type)
		assert.NotEmpty(t, drops[0].Parts)
	}
}

// TestRollDrops_ManufacturerFallbackUniform: without entry or table weight
// overrides, every known manufacturer must be equally likely.
func TestRollDrops_ManufacturerFallbackUniform(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))

	table := &loot.Table{
		ID:       "plain",
		Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, Guaranteed: true, MaxRarity: rarity.TierCommon}},
		MinDrops: 1, MaxDrops: 1,
		AllowDuplicates: true,
	}
	engine := newEngine(idx)

	const n = 10000
	src := rng.NewSeededSource(13)
	counts := make(map[manufacturer.ID]int)
	for i := 0; i < n; i++ {
		drops, err := engine.RollDrops(table, baseContext(), src)
		require.NoError(t, err)
		require.Len(t, drops, 1)
		counts[drops[0].Manufacturer]++
	}

	for _, m := range idx.Manufacturers() {
		assert.InDelta(t, n/2, counts[m.ID], 200,
			"manufacturer %s should be selected uniformly, got %d of %d", m.ID, counts[m.ID], n)
	}
}

func TestRollDrops_ManufacturerOverrideChain(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))
	engine := newEngine(idx)

	t.Run("table override", func(t *testing.T) {
		table := &loot.Table{
			ID:       "branded",
			Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, Guaranteed: true, MaxRarity: rarity.TierCommon}},
			MinDrops: 1, MaxDrops: 1,
			AllowDuplicates:     true,
			ManufacturerWeights: manufacturer.Weights{"ferros": 1},
		}
		for i := 0; i < 50; i++ {
			drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(int64(i)))
			require.NoError(t, err)
			require.Len(t, drops, 1)
			assert.Equal(t, manufacturer.ID("ferros"), drops[0].Manufacturer)
		}
	})

	t.Run("entry override wins over table", func(t *testing.T) {
		table := &loot.Table{
			ID: "branded",
			Entries: []*loot.Entry{{
				Type: loot.ItemShield, Weight: 1, Guaranteed: true, MaxRarity: rarity.TierCommon,
				ManufacturerWeights: manufacturer.Weights{"voltaic": 1},
			}},
			MinDrops: 1, MaxDrops: 1,
			AllowDuplicates:     true,
			ManufacturerWeights: manufacturer.Weights{"ferros": 1},
		}
		for i := 0; i < 50; i++ {
			drops, err := engine.RollDrops(table, baseContext(), rng.NewSeededSource(int64(i)))
			require.NoError(t, err)
			require.Len(t, drops, 1)
			assert.Equal(t, manufacturer.ID("voltaic"), drops[0].Manufacturer)
		}
	})
}

func TestRollDrops_ItemLevel(t *testing.T) {
	idx := newFakeIndex()
	idx.addItem(shieldItem("shd_a", rarity.TierCommon))

	table := &loot.Table{
		ID:       "leveling",
		Entries:  []*loot.Entry{{Type: loot.ItemShield, Weight: 1, Guaranteed: true}},
		MinDrops: 1, MaxDrops: 1,
	}
	engine := newEngine(idx)

	cases := []struct {
		level, difficulty, want int
	}{
		{30, 0, 30},
		{30, 9, 31},
		{50, 10, 50}, // clamped to the cap
	}
	for _, tc := range cases {
		ctx := baseContext()
		ctx.PlayerLevel = tc.level
		ctx.DifficultyTier = tc.difficulty
		drops, err := engine.RollDrops(table, ctx, rng.NewSeededSource(1))
		require.NoError(t, err)
		require.Len(t, drops, 1)
		assert.Equal(t, tc.want, drops[0].ItemLevel, "level %d difficulty %d", tc.level, tc.difficulty)
	}
}

func TestEntry_Validate(t *testing.T) {
	valid := &loot.Entry{Type: loot.ItemShield, Weight: 1, BaseChance: 0.5}
	assert.NoError(t, valid.Validate())

	t.Run("bad chance", func(t *testing.T) {
		e := &loot.Entry{Type: loot.ItemShield, Weight: 1, BaseChance: 1.5}
		assert.ErrorContains(t, e.Validate(), "base chance")
	})

	t.Run("inverted rarity bounds", func(t *testing.T) {
		e := &loot.Entry{Type: loot.ItemShield, Weight: 1, MinRarity: rarity.TierEpic, MaxRarity: rarity.TierRare}
		assert.ErrorContains(t, e.Validate(), "rarity bounds inverted")
	})

	t.Run("inverted quantity bounds", func(t *testing.T) {
		e := &loot.Entry{Type: loot.ItemShield, Weight: 1, MinQuantity: 5, MaxQuantity: 2}
		assert.ErrorContains(t, e.Validate(), "quantity bounds inverted")
	})
}

func TestTable_Validate(t *testing.T) {
	t.Run("self parent", func(t *testing.T) {
		table := &loot.Table{ID: "loop", ParentID: "loop", MaxDrops: 1}
		assert.ErrorContains(t, table.Validate(), "its own parent")
	})

	t.Run("inverted drop bounds", func(t *testing.T) {
		table := &loot.Table{ID: "bad", MinDrops: 3, MaxDrops: 1}
		assert.ErrorContains(t, table.Validate(), "drop count bounds inverted")
	})

	t.Run("entry context in message", func(t *testing.T) {
		table := &loot.Table{
			ID:      "bad_entry",
			Entries: []*loot.Entry{{Type: loot.ItemShield, Weight: 1}, {Type: loot.ItemShield, Weight: -1}},
		}
		assert.ErrorContains(t, table.Validate(), "entry 1")
	})
}

func TestItemType_Classification(t *testing.T) {
	assert.True(t, loot.ItemWeapon.Composite())
	assert.False(t, loot.ItemShield.Composite())

	assert.True(t, loot.ItemClassMod.ManufacturerBearing())
	assert.False(t, loot.ItemMoney.ManufacturerBearing())

	assert.True(t, loot.ItemArtifact.PoolBacked())
	assert.False(t, loot.ItemWeapon.PoolBacked(), "weapons compose from parts, not item pools")
	assert.False(t, loot.ItemEridium.PoolBacked())
}
