package types

import "time"

// Clock supplies the trusted current time used to reject observation times
// that lie in the future. The host environment injects it; in the original
// deployment the value is block-derived, in the CLI host it is the system
// clock, and tests pin it.
type Clock interface {
	// Now returns the trusted current time, Unix seconds.
	Now() int64
}

// SystemClock is a Clock backed by the system wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() int64 { return time.Now().Unix() }

// FixedClock is a Clock pinned to a constant instant, for tests and replay.
type FixedClock int64

// Now implements Clock.
func (c FixedClock) Now() int64 { return int64(c) }
