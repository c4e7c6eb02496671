// Package clock provides wall-clock time in the household's time zone.
package clock

import "time"

// SystemClock reads the system clock and converts it to a fixed location.
type SystemClock struct {
	loc *time.Location
}

// New returns a SystemClock for loc. A nil loc means time.Local.
func New(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

// Now returns the current time in the clock's location.
func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}
