package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLock struct{ present bool }

func (f *fakeLock) Present() bool { return f.present }

var base = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func pomodoro() Config {
	return Config{Work: 1200 * time.Second, Break: 300 * time.Second}
}

func TestNewInitialState(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		lockPresent bool
		wantActive  bool
	}{
		{name: "no lock", cfg: pomodoro(), wantActive: false},
		{name: "lock present", cfg: pomodoro(), lockPresent: true, wantActive: true},
		{name: "start active", cfg: Config{Work: time.Minute, Break: time.Minute, StartActive: true}, wantActive: true},
		{name: "zero work never active", cfg: Config{StartActive: true}, lockPresent: true, wantActive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := New(tt.cfg, base, tt.lockPresent)
			assert.Equal(t, tt.wantActive, timer.Active())
			assert.Equal(t, base, timer.State().PeriodStart)
		})
	}
}

func TestActiveStaysActiveBeforeWorkElapses(t *testing.T) {
	for _, e := range []time.Duration{0, time.Second, 600 * time.Second, 1199 * time.Second} {
		timer := New(Config{Work: 1200 * time.Second, Break: 300 * time.Second, StartActive: true}, base, false)
		tr, reason := timer.Check(base.Add(e), nil)
		assert.Equal(t, None, tr, "elapsed %v", e)
		assert.Empty(t, reason)
		assert.True(t, timer.Active(), "elapsed %v", e)
	}
}

func TestActiveBecomesInactiveOnceWorkElapses(t *testing.T) {
	for _, e := range []time.Duration{1200 * time.Second, 1300 * time.Second, 10 * time.Hour} {
		timer := New(Config{Work: 1200 * time.Second, Break: 300 * time.Second, StartActive: true}, base, false)
		now := base.Add(e)
		tr, reason := timer.Check(now, nil)
		assert.Equal(t, ToInactive, tr, "elapsed %v", e)
		assert.Equal(t, ReasonWorkElapsed, reason)
		assert.False(t, timer.Active())
		assert.Equal(t, now, timer.State().PeriodStart)
	}
}

func TestInactiveBecomesActiveOnceBreakElapses(t *testing.T) {
	timer := New(pomodoro(), base, false)

	tr, _ := timer.Check(base.Add(299*time.Second), nil)
	assert.Equal(t, None, tr)
	assert.False(t, timer.Active())

	tr, reason := timer.Check(base.Add(300*time.Second), nil)
	assert.Equal(t, ToActive, tr)
	assert.Equal(t, ReasonBreakElapsed, reason)
	assert.True(t, timer.Active())
}

func TestOneTransitionPerCheck(t *testing.T) {
	timer := New(Config{Work: time.Minute, Break: time.Minute, StartActive: true}, base, false)

	// Long enough for several periods; only one flip happens.
	now := base.Add(time.Hour)
	tr, _ := timer.Check(now, nil)
	assert.Equal(t, ToInactive, tr)

	tr, _ = timer.Check(now, nil)
	assert.Equal(t, None, tr)
	assert.False(t, timer.Active())
}

func TestLockCreatedForcesActive(t *testing.T) {
	lock := &fakeLock{}
	timer := New(pomodoro(), base, false)

	tr, _ := timer.Check(base.Add(10*time.Second), lock)
	require.Equal(t, None, tr)

	lock.present = true
	now := base.Add(20 * time.Second)
	tr, reason := timer.Check(now, lock)
	assert.Equal(t, ToActive, tr)
	assert.Equal(t, ReasonLockCreated, reason)
	assert.True(t, timer.Active())
	assert.Equal(t, now, timer.State().PeriodStart)

	// Still present: not an edge, nothing happens.
	tr, _ = timer.Check(now.Add(time.Second), lock)
	assert.Equal(t, None, tr)
}

func TestLockAlreadyPresentIsNotAnEdge(t *testing.T) {
	lock := &fakeLock{present: true}
	timer := New(pomodoro(), base, true)

	// Work elapses while the lock is still there.
	tr, reason := timer.Check(base.Add(1200*time.Second), lock)
	assert.Equal(t, ToInactive, tr)
	assert.Equal(t, ReasonWorkElapsed, reason)

	// The lock has not changed, so the break is not cut short.
	tr, _ = timer.Check(base.Add(1210*time.Second), lock)
	assert.Equal(t, None, tr)
	assert.False(t, timer.Active())
}

func TestLockRemovedAfterWorkForcesInactive(t *testing.T) {
	lock := &fakeLock{}
	timer := New(pomodoro(), base, false)

	lock.present = true
	tr, _ := timer.Check(base.Add(time.Second), lock)
	require.Equal(t, ToActive, tr)

	// Lock removed early: the timer keeps running the work period.
	timer2 := New(pomodoro(), base, true)
	lock2 := &fakeLock{}
	tr, _ = timer2.Check(base.Add(100*time.Second), lock2)
	assert.Equal(t, None, tr)
	assert.True(t, timer2.Active())

	// Lock present for a whole work period, then removed while a new work
	// period (entered via break-elapsed) is in progress.
	timer3 := New(Config{Work: 1200 * time.Second, Break: 0}, base, true)
	lock3 := &fakeLock{present: true}
	tr, _ = timer3.Check(base.Add(1200*time.Second), lock3)
	require.Equal(t, ToInactive, tr)
	tr, _ = timer3.Check(base.Add(1201*time.Second), lock3)
	require.Equal(t, ToActive, tr)

	lock3.present = false
	tr, reason := timer3.Check(base.Add(1202*time.Second), lock3)
	assert.Equal(t, ToInactive, tr)
	assert.Equal(t, ReasonLockStale, reason)
}

func TestZeroDurationsDegradeToInactive(t *testing.T) {
	lock := &fakeLock{}
	timer := New(Config{}, base, false)

	for i := 0; i < 5; i++ {
		lock.present = i%2 == 1
		tr, _ := timer.Check(base.Add(time.Duration(i)*time.Hour), lock)
		assert.Equal(t, None, tr)
		assert.False(t, timer.Active())
	}
}

func TestSetDurations(t *testing.T) {
	timer := New(Config{Work: time.Hour, Break: time.Minute, StartActive: true}, base, false)
	timer.SetDurations(10*time.Minute, 5*time.Minute)

	assert.Equal(t, 10*time.Minute, timer.State().Work)
	assert.Equal(t, 5*time.Minute, timer.State().Break)

	tr, _ := timer.Check(base.Add(10*time.Minute), nil)
	assert.Equal(t, ToInactive, tr)

	timer.SetDurations(-time.Second, -time.Second)
	assert.Equal(t, time.Duration(0), timer.State().Work)
}

func TestRemainingClampsToZero(t *testing.T) {
	timer := New(Config{Work: time.Minute, Break: time.Minute, StartActive: true}, base, false)

	assert.Equal(t, 40*time.Second, timer.Remaining(base.Add(20*time.Second)))
	assert.Equal(t, time.Duration(0), timer.Remaining(base.Add(time.Hour)))

	// Clock stepped backwards.
	assert.Equal(t, time.Duration(0), timer.Elapsed(base.Add(-time.Minute)))
	assert.Equal(t, time.Minute, timer.Remaining(base.Add(-time.Minute)))
}

func TestTransitionString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "active", ToActive.String())
	assert.Equal(t, "inactive", ToInactive.String())
	assert.Equal(t, "active", State{Active: true}.Label())
	assert.Equal(t, "inactive", State{}.Label())
}
