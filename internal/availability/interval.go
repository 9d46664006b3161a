package availability

import (
	"time"

	"github.com/Breyner794/barber-shop/internal/site"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two half-open ranges intersect. Touching
// ranges (one ends exactly when the other starts) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Within reports whether i lies entirely inside the window.
func (i Interval) Within(w site.Window) bool {
	return !i.Start.Before(w.Open) && !i.End.After(w.Close)
}

// Conflicts reports whether iv overlaps any of busy.
func Conflicts(iv Interval, busy []Interval) bool {
	for _, b := range busy {
		if iv.Overlaps(b) {
			return true
		}
	}
	return false
}

// Candidates steps through the window from its opening time and returns every
// start whose [start, start+length) fits the window, is free of busy and does
// not begin before notBefore.
func Candidates(w site.Window, length, step time.Duration, busy []Interval, notBefore time.Time) []Interval {
	if length <= 0 || step <= 0 {
		return nil
	}

	var out []Interval
	for start := w.Open; !start.Add(length).After(w.Close); start = start.Add(step) {
		iv := Interval{Start: start, End: start.Add(length)}
		if start.Before(notBefore) {
			continue
		}
		if Conflicts(iv, busy) {
			continue
		}
		out = append(out, iv)
	}
	return out
}
