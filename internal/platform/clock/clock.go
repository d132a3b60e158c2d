package clock

import "time"

// Clock abstracts time to keep engine logic deterministic in tests.
// time.Time values carry a monotonic reading when produced by the
// system clock, so Sub between two instants is immune to wall jumps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
