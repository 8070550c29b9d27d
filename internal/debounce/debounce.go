// Package debounce delays a callback until its input has been quiet for an
// interval.
package debounce

import (
	"sync"
	"time"
)

// DefaultInterval is the quiet period used when New is given zero.
const DefaultInterval = 300 * time.Millisecond

// Debouncer calls fn with the last value passed to Trigger once no other
// Trigger arrived for the interval. Calls to fn never overlap, and a value
// superseded by a later Trigger, Flush or Stop is never delivered after it.
type Debouncer struct {
	interval time.Duration
	fn       func(string)

	// fireMu serializes deliveries to fn; mu guards the fields below.
	fireMu  sync.Mutex
	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// New creates a debouncer. fn runs on its own goroutine.
func New(interval time.Duration, fn func(string)) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer{interval: interval, fn: fn}
}

// Trigger schedules fn(v) and restarts the quiet period. Any value that was
// still waiting is dropped.
func (d *Debouncer) Trigger(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.resetLocked()
	seq := d.seq
	d.timer = time.AfterFunc(d.interval, func() {
		d.fire(seq, v)
	})
}

// Flush drops any waiting value and calls fn(v) right away on the caller's
// goroutine.
func (d *Debouncer) Flush(v string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.resetLocked()
	seq := d.seq
	d.mu.Unlock()
	d.fire(seq, v)
}

// Stop drops pending work. Later calls are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
	d.stopped = true
}

// fire delivers v unless a later Trigger, Flush or Stop bumped the sequence.
// The check happens under fireMu, so a delivery already running finishes
// before a newer one starts and an older one can never land last.
func (d *Debouncer) fire(seq uint64, v string) {
	d.fireMu.Lock()
	defer d.fireMu.Unlock()

	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

func (d *Debouncer) pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// resetLocked invalidates the waiting timer. A timer that already fired but
// has not taken the lock yet sees a stale seq and returns.
func (d *Debouncer) resetLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
