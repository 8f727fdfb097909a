package x11

import (
	"github.com/jezek/xgb/xproto"

	"github.com/pomoblock/pomoblock/pkg/window"
)

// mapTracker decides which MapNotify events name a new client. A top-level
// window is reported once, after its client could be resolved, and becomes
// new again when it is destroyed.
type mapTracker struct {
	seen    map[xproto.Window]bool
	resolve func(top xproto.Window) (window.ID, error)
}

func newMapTracker(resolve func(xproto.Window) (window.ID, error)) *mapTracker {
	return &mapTracker{seen: make(map[xproto.Window]bool), resolve: resolve}
}

// mapped returns the client to report for e. ok is false when there is
// nothing to report; err is set when the client could not be resolved yet.
func (t *mapTracker) mapped(e xproto.MapNotifyEvent) (id window.ID, ok bool, err error) {
	if e.OverrideRedirect || t.seen[e.Window] {
		return 0, false, nil
	}
	id, err = t.resolve(e.Window)
	if err != nil {
		return 0, false, err
	}
	t.seen[e.Window] = true
	return id, true, nil
}

func (t *mapTracker) destroyed(w xproto.Window) {
	delete(t.seen, w)
}
