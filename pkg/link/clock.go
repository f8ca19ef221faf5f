package link

import "time"

// Clock supplies the monotonic millisecond tick used for poll timing.
type Clock interface {
	Now() uint32
}

// SystemClock counts milliseconds since its creation. The counter wraps
// after about 49 days; the scheduler arithmetic is wrap-safe.
type SystemClock struct {
	start time.Time
}

// NewSystemClock starts a clock at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the elapsed milliseconds.
func (c *SystemClock) Now() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
