package core

import "time"

// FixedStep accumulates wall-clock time and hands it out in fixed-size
// simulation ticks.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetTPS(tps)
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Step returns the duration of one simulation tick.
func (f *FixedStep) Step() time.Duration { return f.step }

// Pending returns the time accumulated but not yet consumed by a tick.
func (f *FixedStep) Pending() time.Duration { return f.accumulator }

// Advance adds elapsed to the accumulator and returns how many whole ticks
// are now due. The ticks are consumed from the accumulator.
func (f *FixedStep) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		f.accumulator += elapsed
	}
	ticks := 0
	for f.accumulator >= f.step {
		f.accumulator -= f.step
		ticks++
	}
	return ticks
}

// Mark records the start of a frame at now and returns the ticks due since
// the previous mark. The first mark only establishes the reference point.
func (f *FixedStep) Mark(now time.Time) int {
	if f.last.IsZero() {
		f.last = now
		return 0
	}
	delta := now.Sub(f.last)
	f.last = now
	return f.Advance(delta)
}
