package dataset

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/lootforge/internal/game/loot"
	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/parts"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// ValidationError aggregates every violation found in a dataset. Each
// problem carries enough authoring context (table id, entry index,
// category) to fix the data.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset validation failed: %s", strings.Join(e.Problems, "; "))
}

// Validate eagerly checks every configuration invariant before any roll can
// be attempted. Runtime rolls over a validated dataset are total functions.
//
// Precondition: ds is non-nil.
// Postcondition: returns nil or a *ValidationError listing all violations.
func Validate(ds *Dataset) error {
	var v ValidationError

	v.checkRarity(ds)
	v.checkManufacturers(ds)
	v.checkParts(ds)
	v.checkItems(ds)
	v.checkTables(ds)
	v.checkUniques(ds)
	v.checkCoverage(ds)

	if len(v.Problems) > 0 {
		return &v
	}
	return nil
}

func (v *ValidationError) addf(format string, args ...any) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

func (v *ValidationError) checkRarity(ds *Dataset) {
	if ds.Rarity == nil {
		v.addf("rarity table is missing")
		return
	}
	for _, tier := range rarity.All() {
		info, ok := ds.Rarity.Info[tier]
		if !ok {
			v.addf("rarity table: tier %s is not configured", tier)
			continue
		}
		if info.Weight < 0 {
			v.addf("rarity table: tier %s weight must not be negative, got %g", tier, info.Weight)
		}
		if info.Improvement.MinPct > info.Improvement.MaxPct {
			v.addf("rarity table: tier %s improvement range inverted: %g > %g",
				tier, info.Improvement.MinPct, info.Improvement.MaxPct)
		}
	}
	if err := ds.Rarity.Distribution().Validate(); err != nil {
		v.addf("rarity table: %v", err)
	}
}

func (v *ValidationError) checkManufacturers(ds *Dataset) {
	seen := make(map[manufacturer.ID]bool, len(ds.Manufacturers))
	for i, m := range ds.Manufacturers {
		if m.ID == manufacturer.None {
			v.addf("manufacturer %d: id must not be empty", i)
			continue
		}
		if seen[m.ID] {
			v.addf("manufacturer %q declared more than once", m.ID)
		}
		seen[m.ID] = true
	}
}

func (v *ValidationError) knownManufacturers(ds *Dataset) map[manufacturer.ID]bool {
	known := make(map[manufacturer.ID]bool, len(ds.Manufacturers))
	for _, m := range ds.Manufacturers {
		known[m.ID] = true
	}
	return known
}

func (v *ValidationError) checkParts(ds *Dataset) {
	known := v.knownManufacturers(ds)
	seen := make(map[string]bool, len(ds.Parts))
	for i, p := range ds.Parts {
		if err := p.Validate(ds.Floors); err != nil {
			v.addf("part %d (%s): %v", i, p.ID, err)
		}
		if p.ID != "" {
			if seen[p.ID] {
				v.addf("part id %q declared more than once", p.ID)
			}
			seen[p.ID] = true
		}
		if p.Manufacturer != manufacturer.None && !known[p.Manufacturer] {
			v.addf("part %q references unknown manufacturer %q", p.ID, p.Manufacturer)
		}
	}
}

func (v *ValidationError) checkItems(ds *Dataset) {
	seen := make(map[string]bool, len(ds.Items))
	for i, item := range ds.Items {
		if err := item.Validate(); err != nil {
			v.addf("item %d (%s): %v", i, item.ID, err)
		}
		if item.ID != "" {
			if seen[item.ID] {
				v.addf("item id %q declared more than once", item.ID)
			}
			seen[item.ID] = true
		}
	}
}

func (v *ValidationError) checkTables(ds *Dataset) {
	known := v.knownManufacturers(ds)
	itemsByID := make(map[string]*loot.ItemDef, len(ds.Items))
	for _, item := range ds.Items {
		itemsByID[item.ID] = item
	}
	uniqueIDs := make(map[string]bool, len(ds.Uniques))
	for _, u := range ds.Uniques {
		uniqueIDs[u.ID] = true
	}
	tablesByID := make(map[string]*loot.Table, len(ds.Tables))
	for _, t := range ds.Tables {
		if t.ID != "" && tablesByID[t.ID] != nil {
			v.addf("table id %q declared more than once", t.ID)
		}
		tablesByID[t.ID] = t
	}

	for _, t := range ds.Tables {
		if err := t.Validate(); err != nil {
			v.addf("%v", err)
		}
		if t.ParentID != "" {
			if _, ok := tablesByID[t.ParentID]; !ok {
				v.addf("table %q references unknown parent %q", t.ID, t.ParentID)
			} else if cycle := parentCycle(t, tablesByID); cycle != "" {
				v.addf("table %q: parent chain forms a cycle (%s)", t.ID, cycle)
			}
		}
		for id := range t.ManufacturerWeights {
			if !known[id] {
				v.addf("table %q references unknown manufacturer %q", t.ID, id)
			}
		}
		checkEntryRefs := func(kind string, entries []*loot.Entry) {
			for i, e := range entries {
				for id := range e.ManufacturerWeights {
					if !known[id] {
						v.addf("table %q %s %d references unknown manufacturer %q", t.ID, kind, i, id)
					}
				}
				if e.ItemID == "" {
					continue
				}
				if e.Type.Composite() {
					if !uniqueIDs[e.ItemID] {
						v.addf("table %q %s %d references unknown unique %q", t.ID, kind, i, e.ItemID)
					}
				} else if e.Type.PoolBacked() {
					item, ok := itemsByID[e.ItemID]
					if !ok {
						v.addf("table %q %s %d references unknown item %q", t.ID, kind, i, e.ItemID)
					} else if item.Type != e.Type {
						v.addf("table %q %s %d: item %q is a %s, entry expects %s",
							t.ID, kind, i, e.ItemID, item.Type, e.Type)
					}
				}
			}
		}
		checkEntryRefs("entry", t.Entries)
		checkEntryRefs("difficulty entry", t.DifficultyEntries)
	}
}

// parentCycle walks the parent chain from t and returns the joined chain
// when it revisits a table. Inheritance unions a single level at roll time,
// but authored chains may be longer, so the whole graph is checked.
func parentCycle(t *loot.Table, tables map[string]*loot.Table) string {
	visited := map[string]bool{t.ID: true}
	chain := []string{t.ID}
	current := t
	for current.ParentID != "" {
		next, ok := tables[current.ParentID]
		if !ok {
			return ""
		}
		chain = append(chain, next.ID)
		if visited[next.ID] {
			return strings.Join(chain, " -> ")
		}
		visited[next.ID] = true
		current = next
	}
	return ""
}

func (v *ValidationError) checkUniques(ds *Dataset) {
	known := v.knownManufacturers(ds)
	seen := make(map[string]bool, len(ds.Uniques))
	for i, u := range ds.Uniques {
		if err := u.Validate(); err != nil {
			v.addf("unique %d (%s): %v", i, u.ID, err)
		}
		if u.ID != "" {
			if seen[u.ID] {
				v.addf("unique id %q declared more than once", u.ID)
			}
			seen[u.ID] = true
		}
		for _, id := range u.Preferred {
			if !known[id] {
				v.addf("unique %q prefers unknown manufacturer %q", u.ID, id)
			}
		}
	}
}

// checkCoverage rejects category or item-type pools that would be empty at
// every fallback tier for entries that need them.
func (v *ValidationError) checkCoverage(ds *Dataset) {
	partCount := make(map[parts.Category]int, parts.CategoryCount)
	for _, p := range ds.Parts {
		partCount[p.Category]++
	}

	itemCount := make(map[loot.ItemType]int)
	for _, item := range ds.Items {
		itemCount[item.Type]++
	}

	// A category pool only has to be populated when some composition can
	// sample from it: open-world weapon entries randomize every category,
	// while a unique randomizes just the categories it neither fixes nor
	// omits. A dataset of fully pinned uniques needs no pools at all.
	neededCats := make(map[parts.Category]bool, parts.CategoryCount)
	for _, u := range ds.Uniques {
		for _, cat := range parts.Categories() {
			if u.Fixed[cat] != nil {
				continue
			}
			if omitsCategory(u.Omit, cat) {
				continue
			}
			neededCats[cat] = true
		}
	}

	neededTypes := make(map[loot.ItemType]bool)
	for _, t := range ds.Tables {
		for _, e := range append(append([]*loot.Entry{}, t.Entries...), t.DifficultyEntries...) {
			if e.Type.Composite() && e.ItemID == "" {
				for _, cat := range parts.Categories() {
					neededCats[cat] = true
				}
			}
			if e.Type.PoolBacked() && e.ItemID == "" {
				neededTypes[e.Type] = true
			}
		}
	}

	for _, cat := range parts.Categories() {
		if neededCats[cat] && partCount[cat] == 0 {
			v.addf("category %s has no parts at any tier; composition cannot succeed", cat)
		}
	}
	for itemType := range neededTypes {
		if itemCount[itemType] == 0 {
			v.addf("item type %s has no pool items at any tier but is rolled without a specific id", itemType)
		}
	}
}

func omitsCategory(omit []parts.Category, cat parts.Category) bool {
	for _, c := range omit {
		if c == cat {
			return true
		}
	}
	return false
}
