package clock

import "time"

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// After notifies on the returned channel after the specified time has
// passed.
func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
