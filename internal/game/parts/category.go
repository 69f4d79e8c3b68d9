// Package parts defines the structural slots composite weapons are built
// from, the authored part definitions that fill them, and the composition
// engine that assembles a weapon from category pools.
package parts

import "fmt"

// Category is one of the fixed structural slots of a composite weapon.
// The set is closed: every switch over Category in the engine is exhaustive,
// so adding a slot is a compile-time-enforced change everywhere it matters.
type Category int

const (
	CategoryReceiver Category = iota + 1
	CategoryBarrel
	CategoryMagazine
	CategoryGrip
	CategoryStock
	CategorySight
)

// CategoryCount is the number of part categories.
const CategoryCount = 6

// ManufacturerCategory is the slot whose part determines the composed
// weapon's manufacturer.
const ManufacturerCategory = CategoryReceiver

// Categories returns the slots in canonical composition order. Composition
// iterates this order so seeded replays are stable.
func Categories() []Category {
	return []Category{
		CategoryReceiver, CategoryBarrel, CategoryMagazine,
		CategoryGrip, CategoryStock, CategorySight,
	}
}

// String returns the lowercase category name, or "category(<n>)" for
// invalid values.
func (c Category) String() string {
	switch c {
	case CategoryReceiver:
		return "receiver"
	case CategoryBarrel:
		return "barrel"
	case CategoryMagazine:
		return "magazine"
	case CategoryGrip:
		return "grip"
	case CategoryStock:
		return "stock"
	case CategorySight:
		return "sight"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Valid reports whether c is one of the six defined categories.
func (c Category) Valid() bool {
	return c >= CategoryReceiver && c <= CategorySight
}

// ParseCategory converts a lowercase category name to its Category.
//
// Postcondition: Returns a valid Category or a non-nil error naming the input.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("parts: unknown category name %q", name)
}
