// Package session implements the work/break state machine that gates the
// window filter.
//
// The timer is not driven by its own clock. It is checked once per new-window
// event, so a period can overrun by however long it takes for the next window
// to appear.
package session

import "time"

// Transition is the outcome of a single Check.
type Transition int

const (
	None Transition = iota
	ToActive
	ToInactive
)

func (t Transition) String() string {
	switch t {
	case ToActive:
		return "active"
	case ToInactive:
		return "inactive"
	default:
		return "none"
	}
}

// Reason explains why a transition fired.
type Reason string

const (
	ReasonWorkElapsed  Reason = "work-elapsed"
	ReasonBreakElapsed Reason = "break-elapsed"
	ReasonLockCreated  Reason = "lock-created"
	ReasonLockStale    Reason = "lock-removed-after-work"

	// Not a transition: the state a timer was created in.
	ReasonStartup     Reason = "startup"
	ReasonStartupLock Reason = "startup-lock-present"
)

// Signal is an external boolean override, normally the sentinel lock file.
type Signal interface {
	Present() bool
}

// Config holds the period lengths.
type Config struct {
	Work        time.Duration
	Break       time.Duration
	StartActive bool
}

// State is a read-only snapshot of a Timer.
type State struct {
	Active      bool          `json:"active" yaml:"active"`
	PeriodStart time.Time     `json:"period_start" yaml:"period_start"`
	Work        time.Duration `json:"work" yaml:"work"`
	Break       time.Duration `json:"break" yaml:"break"`
}

// Label returns "active" or "inactive".
func (s State) Label() string {
	if s.Active {
		return "active"
	}
	return "inactive"
}

// Timer owns the session state. It is not safe for concurrent use; the host
// event loop is its only caller.
type Timer struct {
	active      bool
	periodStart time.Time
	work        time.Duration
	brk         time.Duration

	lockSeen  bool
	lockSince time.Time
}

// New creates a timer starting at now. The timer starts active when the lock
// is already present or cfg.StartActive is set. A zero work duration disables
// the session entirely: the timer never becomes active.
func New(cfg Config, now time.Time, lockPresent bool) *Timer {
	t := &Timer{
		active:      (lockPresent || cfg.StartActive) && cfg.Work > 0,
		periodStart: now,
		work:        nonNegative(cfg.Work),
		brk:         nonNegative(cfg.Break),
		lockSeen:    lockPresent,
	}
	if lockPresent {
		t.lockSince = now
	}
	return t
}

// Check advances the state machine to now and returns the transition taken,
// if any. At most one transition happens per call. When lock is non-nil its
// edges take precedence over the elapsed-time rules.
func (t *Timer) Check(now time.Time, lock Signal) (Transition, Reason) {
	if lock != nil {
		present := lock.Present()
		prev, since := t.lockSeen, t.lockSince
		t.lockSeen = present
		if present && !prev {
			t.lockSince = now
		}

		switch {
		case present && !prev && !t.active && t.work > 0:
			t.enter(true, now)
			return ToActive, ReasonLockCreated
		case !present && prev && t.active && clampedSub(now, since) >= t.work:
			t.enter(false, now)
			return ToInactive, ReasonLockStale
		}
	}

	elapsed := t.Elapsed(now)
	if t.active {
		if elapsed >= t.work {
			t.enter(false, now)
			return ToInactive, ReasonWorkElapsed
		}
		return None, ""
	}
	if t.work > 0 && elapsed >= t.brk {
		t.enter(true, now)
		return ToActive, ReasonBreakElapsed
	}
	return None, ""
}

func (t *Timer) enter(active bool, now time.Time) {
	t.active = active
	t.periodStart = now
}

// Active reports whether the timer is in a work period.
func (t *Timer) Active() bool {
	return t.active
}

// SetDurations replaces the period lengths. The current period keeps its start.
func (t *Timer) SetDurations(work, brk time.Duration) {
	t.work = nonNegative(work)
	t.brk = nonNegative(brk)
}

// Elapsed returns the time spent in the current period.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	return clampedSub(now, t.periodStart)
}

// Remaining returns the time left in the current period, never negative.
func (t *Timer) Remaining(now time.Time) time.Duration {
	length := t.brk
	if t.active {
		length = t.work
	}
	return nonNegative(length - t.Elapsed(now))
}

// State returns a snapshot of the timer.
func (t *Timer) State() State {
	return State{
		Active:      t.active,
		PeriodStart: t.periodStart,
		Work:        t.work,
		Break:       t.brk,
	}
}

func clampedSub(a, b time.Time) time.Duration {
	return nonNegative(a.Sub(b))
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
