package game

import "time"

// Clock supplies monotonic milliseconds to the frame loop. The engine
// itself never reads a clock; frontends pass the time into Tick.
type Clock interface {
	NowMs() int64
}

// SystemClock measures wall time since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock starts a clock at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) NowMs() int64 {
	return time.Since(c.start).Milliseconds()
}

// ManualClock only moves when told to. Used by headless runs and tests.
type ManualClock struct {
	now int64
}

func (c *ManualClock) NowMs() int64 { return c.now }

// Advance moves the clock forward by ms and returns the new time.
func (c *ManualClock) Advance(ms int64) int64 {
	c.now += ms
	return c.now
}
