package game

import "time"

// Clock is the external time-control collaborator. The engine calls it
// around Submit and never inspects the values beyond passing them through.
type Clock interface {
	// StartTime begins timing the side to move. skipGraceAmount and
	// skipAmount let the caller burn grace or base time up front.
	StartTime(skipGraceAmount, skipAmount int)
	// StopTime ends the running measurement and returns elapsed ms.
	StopTime() int64
	// UpdateTime force-sets the remaining time of the running side.
	UpdateTime(ms int64)
}

// WallClock is the obvious Clock over the system clock. Zero value is
// ready to use. It keeps no grace period: StartTime honours skipAmount and
// ignores skipGraceAmount.
type WallClock struct {
	startedAt time.Time
	running   bool
	remaining int64
}

func (c *WallClock) StartTime(skipGraceAmount, skipAmount int) {
	c.startedAt = time.Now().Add(-time.Duration(skipAmount) * time.Millisecond)
	c.running = true
}

func (c *WallClock) StopTime() int64 {
	if !c.running {
		return 0
	}
	c.running = false
	return time.Since(c.startedAt).Milliseconds()
}

func (c *WallClock) UpdateTime(ms int64) { c.remaining = ms }

// Remaining returns the last value passed to UpdateTime.
func (c *WallClock) Remaining() int64 { return c.remaining }
