// Package threshold implements the warning/critical classification every
// check type funnels its extracted metrics through.
//
// A threshold set to plugin.Unset (-1) disables that comparison; it is
// never treated as the value zero. The comparison direction varies per
// check type: usage percentages and ages breach at >=, absolute sizes
// breach at strict >.
package threshold

import (
	"github.com/kylerisse/db2check/pkg/plugin"
)

// Compare selects the breach comparison direction for a check type.
type Compare int

const (
	// GreaterEqual breaches when value >= level. Used for usage
	// percentages on a 0-100 scale and for ages in seconds.
	GreaterEqual Compare = iota

	// Greater breaches when value > level. Used for absolute sizes.
	Greater
)

// Bounds couples optional warning/critical levels with a comparison
// direction.
type Bounds struct {
	Warning  int64
	Critical int64
	Cmp      Compare
}

// Evaluate classifies value against the bounds. Critical wins over
// warning; ignore forces OK regardless of value or bounds.
func Evaluate(value int64, b Bounds, ignore bool) plugin.Status {
	if ignore {
		return plugin.OK
	}
	if breached(value, b.Critical, b.Cmp) {
		return plugin.Critical
	}
	if breached(value, b.Warning, b.Cmp) {
		return plugin.Warning
	}
	return plugin.OK
}

func breached(value, level int64, cmp Compare) bool {
	if level == plugin.Unset {
		return false
	}
	if cmp == Greater {
		return value > level
	}
	return value >= level
}

// WarningPtr returns the warning level for perfdata, or nil when unset.
func (b Bounds) WarningPtr() *int64 {
	return levelPtr(b.Warning)
}

// CriticalPtr returns the critical level for perfdata, or nil when unset.
func (b Bounds) CriticalPtr() *int64 {
	return levelPtr(b.Critical)
}

func levelPtr(level int64) *int64 {
	if level == plugin.Unset {
		return nil
	}
	return plugin.Int64(level)
}
