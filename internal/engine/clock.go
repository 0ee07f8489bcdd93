package engine

import "time"

// Clock supplies the reference instant for every birthday evaluation.
// The widget asks for "now" on each data arrival instead of caching it,
// so a long-running process never evaluates against a stale date.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current instant.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Used by the -once CLI mode when
// a reference date is pinned, and by tests.
type FixedClock time.Time

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
