// Package manufacturer defines the themed producer identities attached to
// manufacturer-bearing items and receiver parts.
package manufacturer

import "github.com/cory-johannsen/lootforge/internal/game/sample"

// ID identifies a manufacturer. The known set is authored in the dataset,
// not hard-coded; an empty ID means "no manufacturer".
type ID string

// None is the zero manufacturer for items that do not carry one.
const None ID = ""

// Def is the authored definition of one manufacturer.
type Def struct {
	ID   ID
	Name string
}

// Weights maps manufacturer IDs to selection weights. Entry- and table-level
// overrides use this form.
type Weights map[ID]float64

// Candidates converts defs to a candidate list for weighted selection, with
// weights taken from override when non-nil and uniform otherwise: without an
// override every known manufacturer is equally likely. Candidate order
// follows defs; the dataset index keeps defs sorted by ID so seeded replays
// are stable.
//
// Postcondition: len(result) == len(defs), in the same order.
func Candidates(defs []Def, override Weights) []sample.Candidate[ID] {
	out := make([]sample.Candidate[ID], 0, len(defs))
	for _, d := range defs {
		w := 1.0
		if override != nil {
			w = override[d.ID]
		}
		out = append(out, sample.Candidate[ID]{Value: d.ID, Weight: w})
	}
	return out
}
