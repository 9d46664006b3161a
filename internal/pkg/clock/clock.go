package clock

import "time"

// Clock reports the current instant. Services take a Clock instead of calling
// time.Now so that "today" and "now" can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }
