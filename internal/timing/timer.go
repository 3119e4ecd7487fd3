package timing

import "time"

// Timer measures elapsed race time with pause/resume semantics. The
// clock is injectable so tests can drive time deterministically.
type Timer struct {
	now         func() time.Time
	startedAt   time.Time
	accumulated time.Duration
	running     bool
}

// NewTimer creates a stopped timer at zero. A nil clock uses
// time.Now.
func NewTimer(clock func() time.Time) *Timer {
	if clock == nil {
		clock = time.Now
	}
	return &Timer{now: clock}
}

// Restart zeroes the timer and starts it running.
func (t *Timer) Restart() {
	t.accumulated = 0
	t.startedAt = t.now()
	t.running = true
}

// Pause freezes the elapsed value. Pausing a stopped timer is a
// no-op.
func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.accumulated += t.now().Sub(t.startedAt)
	t.running = false
}

// Resume continues counting from the frozen value.
func (t *Timer) Resume() {
	if t.running {
		return
	}
	t.startedAt = t.now()
	t.running = true
}

// Elapsed returns the measured time in seconds.
func (t *Timer) Elapsed() float64 {
	d := t.accumulated
	if t.running {
		d += t.now().Sub(t.startedAt)
	}
	return d.Seconds()
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	return t.running
}
