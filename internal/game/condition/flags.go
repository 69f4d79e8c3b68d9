// Package condition defines the situational drop-condition bitmask and the
// containment check that gates loot table entries.
package condition

import (
	"fmt"
	"strings"
)

// Flags is a bitmask of situational conditions active for a roll, or
// required by a loot table entry.
type Flags uint32

// FlagNone matches every roll.
const FlagNone Flags = 0

const (
	// FlagCoOp is set when more than one player is in the session.
	FlagCoOp Flags = 1 << iota
	// FlagFirstKill is set the first time a source is defeated.
	FlagFirstKill
	// FlagMayhemActive is set when any mayhem tier is enabled.
	FlagMayhemActive
	// FlagQuestActive is set while the source's associated quest is running.
	FlagQuestActive
	// FlagQuestComplete is set after the source's associated quest finished.
	FlagQuestComplete
	// FlagRaid is set inside raid content.
	FlagRaid
	// FlagTrueVaultHunter is set in the second-playthrough difficulty mode.
	FlagTrueVaultHunter
)

var flagNames = map[Flags]string{
	FlagCoOp:            "coop",
	FlagFirstKill:       "first_kill",
	FlagMayhemActive:    "mayhem_active",
	FlagQuestActive:     "quest_active",
	FlagQuestComplete:   "quest_complete",
	FlagRaid:            "raid",
	FlagTrueVaultHunter: "true_vault_hunter",
}

// Satisfies reports whether every bit in required is also set in active.
// A required value of FlagNone is always satisfied. Pure; no ordering
// dependency between flags.
func Satisfies(required, active Flags) bool {
	return required&active == required
}

// Has reports whether f has every bit of flag set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// String returns the pipe-joined names of the set flags, or "none".
func (f Flags) String() string {
	if f == FlagNone {
		return "none"
	}
	var names []string
	for flag := FlagCoOp; flag <= FlagTrueVaultHunter; flag <<= 1 {
		if f.Has(flag) {
			names = append(names, flagNames[flag])
		}
	}
	return strings.Join(names, "|")
}

// Parse converts a list of flag names into a Flags mask. Authored entry
// conditions use the lowercase names; an empty list parses to FlagNone.
//
// Postcondition: Returns a mask with exactly the named bits, or an error
// naming the first unknown flag.
func Parse(names []string) (Flags, error) {
	var f Flags
	for _, name := range names {
		found := false
		for flag, n := range flagNames {
			if n == name {
				f |= flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("condition: unknown flag %q", name)
		}
	}
	return f, nil
}
