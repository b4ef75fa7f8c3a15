// Package animation drives reactive values over time: a conductor-pumped
// ticker primitive and transitions that ease a Dynamic toward a target.
package animation

import "time"

// Clock provides the time base for animations. Tests swap it for a
// controllable one so animation timing is deterministic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SetClock replaces the default conductor's time source and returns the
// previous one so tests can restore it during cleanup.
func SetClock(c Clock) Clock {
	return Default().SetClock(c)
}

// Now returns the current time from the default conductor's clock.
func Now() time.Time { return Default().Now() }
