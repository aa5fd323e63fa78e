// Package debounce runs a function once a burst of triggers has gone quiet.
package debounce

import (
	"sync"
	"time"
)

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithErrorHandler receives the errors returned by timer-fired calls. Errors
// from Flush are returned to its caller instead.
func WithErrorHandler(fn func(error)) Option {
	return func(d *Debouncer) { d.onError = fn }
}

// Debouncer holds at most one pending call of fn. Every Trigger restarts the
// quiet period.
type Debouncer struct {
	delay   time.Duration
	fn      func() error
	onError func(error)

	mu    sync.Mutex
	timer *time.Timer
	// gen invalidates timers that fired while a Trigger, Flush or Cancel was
	// replacing them.
	gen uint64

	// inflight counts timer-fired calls that have left the queue but not
	// returned yet; idle is signalled when it drops.
	inflight int
	idle     *sync.Cond
	// lastErr is the result of the most recent call.
	lastErr error

	run sync.Mutex
}

// New returns a Debouncer that calls fn delay after the last Trigger.
func New(delay time.Duration, fn func() error, opts ...Option) *Debouncer {
	d := &Debouncer{delay: delay, fn: fn}
	d.idle = sync.NewCond(&d.mu)
	for _, o := range opts {
		o(d)
	}
	return d
}

// Trigger cancels the pending call, if any, and schedules a new one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush runs a pending call immediately and returns its error. With nothing
// pending it waits for a timer-fired call that is still running and returns
// the error of the last timer-fired call, once.
func (d *Debouncer) Flush() error {
	d.mu.Lock()
	if d.timer != nil {
		d.stopLocked()
		d.mu.Unlock()
		return d.call(false)
	}
	for d.inflight > 0 {
		d.idle.Wait()
	}
	err := d.lastErr
	d.lastErr = nil
	d.mu.Unlock()
	return err
}

// Cancel drops the pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.stopLocked()
	d.mu.Unlock()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.gen++
	d.inflight++
	d.mu.Unlock()

	if err := d.call(true); err != nil && d.onError != nil {
		d.onError(err)
	}
}

func (d *Debouncer) call(fired bool) error {
	d.run.Lock()
	defer d.run.Unlock()
	err := d.fn()

	d.mu.Lock()
	if fired {
		d.lastErr = err
		d.inflight--
		d.idle.Broadcast()
	} else {
		// Flush hands err to its caller.
		d.lastErr = nil
	}
	d.mu.Unlock()
	return err
}
