// Package hook is the new-window callback that ties the session timer, the
// lock file and the block list together.
package hook

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pomoblock/pomoblock/internal/blacklist"
	"github.com/pomoblock/pomoblock/internal/config"
	"github.com/pomoblock/pomoblock/internal/models"
	"github.com/pomoblock/pomoblock/internal/session"
	"github.com/pomoblock/pomoblock/pkg/window"
)

// Host is the window manager side of the hook: it resolves window ids and
// can terminate a window's client.
type Host interface {
	window.Resolver
	window.Killer
}

// Recorder journals what the hook did. Failures are logged, never returned.
type Recorder interface {
	CreateKill(event *models.KillEvent) error
	CreateTransition(tr *models.Transition) error
}

// Reloader supplies fresh durations whenever the session changes state.
type Reloader interface {
	Durations(work, brk time.Duration) (time.Duration, time.Duration, []config.Defect, error)
}

// Options configures a Hook. Host and Timer are required.
type Options struct {
	Host      Host
	Timer     *session.Timer
	Lock      session.Signal // nil when the lock file is not monitored
	Blacklist blacklist.List
	Logger    *zap.Logger
	Recorder  Recorder
	Reloader  Reloader
	Now       func() time.Time
}

// Hook decides, per new window, whether to kill it.
type Hook struct {
	host      Host
	timer     *session.Timer
	lock      session.Signal
	blacklist blacklist.List
	log       *zap.Logger
	recorder  Recorder
	reloader  Reloader
	now       func() time.Time
}

// New validates opts and builds a Hook.
func New(opts Options) (*Hook, error) {
	if opts.Host == nil {
		return nil, errors.New("hook: host is required")
	}
	if opts.Timer == nil {
		return nil, errors.New("hook: timer is required")
	}
	h := &Hook{
		host:      opts.Host,
		timer:     opts.Timer,
		lock:      opts.Lock,
		blacklist: opts.Blacklist,
		log:       opts.Logger,
		recorder:  opts.Recorder,
		reloader:  opts.Reloader,
		now:       opts.Now,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	h.log = h.log.Named("hook")
	if h.now == nil {
		h.now = time.Now
	}
	return h, nil
}

// State returns a snapshot of the session timer.
func (h *Hook) State() session.State {
	return h.timer.State()
}

// NewClient is called by the host, on its event loop, once for every newly
// mapped top-level window. A returned error belongs to the host: either the
// window could not be resolved or killing it failed. Session state is
// updated before the kill is attempted and is not rolled back.
func (h *Hook) NewClient(id window.ID) error {
	info, err := h.host.Window(id)
	if err != nil {
		return fmt.Errorf("failed to resolve window %s: %w", id, err)
	}

	now := h.now()
	h.advance(now)

	state := h.timer.State()
	h.log.Info("new client",
		zap.Stringer("window", id),
		zap.String("class", info.Class),
		zap.String("instance", info.Instance),
		zap.String("title", info.Title),
		zap.String("state", state.Label()),
		zap.Duration("remaining", h.timer.Remaining(now)))

	if !state.Active {
		return nil
	}
	entry, ok := h.match(info)
	if !ok {
		return nil
	}

	if err := h.host.Kill(id); err != nil {
		return fmt.Errorf("failed to kill window %s (%s): %w", id, info.Class, err)
	}
	h.log.Info("killed blacklisted client",
		zap.Stringer("window", id),
		zap.String("class", info.Class),
		zap.String("title", info.Title),
		zap.String("entry", entry))

	h.record(func(r Recorder) error {
		return r.CreateKill(&models.KillEvent{
			Timestamp:     now,
			WindowID:      uint32(id),
			Class:         info.Class,
			Title:         info.Title,
			MatchedEntry:  entry,
			DisplayServer: info.DisplayServer,
		})
	})
	return nil
}

// Start logs and journals the state the session starts in, so readers of
// the journal can tell the current run apart from earlier ones.
func (h *Hook) Start(lockPresent bool) {
	now := h.now()
	state := h.timer.State()
	reason := session.ReasonStartup
	if lockPresent {
		reason = session.ReasonStartupLock
	}
	h.log.Info("session started",
		zap.String("state", state.Label()),
		zap.String("reason", string(reason)),
		zap.Duration("work", state.Work),
		zap.Duration("break", state.Break))

	h.record(func(r Recorder) error {
		return r.CreateTransition(&models.Transition{
			Timestamp: now,
			Active:    state.Active,
			Reason:    string(reason),
		})
	})
}

// match checks the WM_CLASS class, then the WM_CLASS instance, each paired
// with the title. Block lists name applications by either part, e.g.
// "Discord" (class) or "brave-browser" (instance).
func (h *Hook) match(info *window.Info) (string, bool) {
	if entry, ok := h.blacklist.Find(info.Class, info.Title); ok {
		return entry, true
	}
	return h.blacklist.Find(info.Instance, info.Title)
}

func (h *Hook) advance(now time.Time) {
	ended := h.timer.Elapsed(now)
	tr, reason := h.timer.Check(now, h.lock)
	if tr == session.None {
		return
	}

	h.reload()
	state := h.timer.State()
	h.log.Info("session state changed",
		zap.Stringer("to", tr),
		zap.String("reason", string(reason)),
		zap.Duration("previous_period", ended),
		zap.Duration("work", state.Work),
		zap.Duration("break", state.Break))

	h.record(func(r Recorder) error {
		return r.CreateTransition(&models.Transition{
			Timestamp: now,
			Active:    tr == session.ToActive,
			Reason:    string(reason),
			Elapsed:   int64(ended / time.Second),
		})
	})
}

func (h *Hook) reload() {
	if h.reloader == nil {
		return
	}
	cur := h.timer.State()
	work, brk, defects, err := h.reloader.Durations(cur.Work, cur.Break)
	if err != nil {
		h.log.Warn("failed to reload durations, keeping current values", zap.Error(err))
		return
	}
	for _, d := range defects {
		h.log.Warn("config value defaulted", zap.String("key", d.Key), zap.Error(d.Err))
	}
	h.timer.SetDurations(work, brk)
}

func (h *Hook) record(fn func(Recorder) error) {
	if h.recorder == nil {
		return
	}
	if err := fn(h.recorder); err != nil {
		h.log.Warn("failed to write journal", zap.Error(err))
	}
}
