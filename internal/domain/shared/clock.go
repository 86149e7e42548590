package shared

import "time"

// Clock supplies the current instant. Discount activity checks and order
// timestamps read time through it so tests can pin a date.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns the pinned instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// DateOf truncates t to its calendar date in t's location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
