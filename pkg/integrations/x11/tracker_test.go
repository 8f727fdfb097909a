package x11

import (
	"errors"
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomoblock/pomoblock/pkg/window"
)

func TestMapTrackerReportsOnce(t *testing.T) {
	calls := 0
	tr := newMapTracker(func(top xproto.Window) (window.ID, error) {
		calls++
		return window.ID(top + 1), nil
	})

	id, ok, err := tr.mapped(xproto.MapNotifyEvent{Window: 0x400000})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, window.ID(0x400001), id)

	// Remapping after a minimize is not a new window.
	_, ok, err = tr.mapped(xproto.MapNotifyEvent{Window: 0x400000})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, calls)

	tr.destroyed(0x400000)
	_, ok, err = tr.mapped(xproto.MapNotifyEvent{Window: 0x400000})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMapTrackerIgnoresOverrideRedirect(t *testing.T) {
	tr := newMapTracker(func(xproto.Window) (window.ID, error) {
		t.Fatal("override-redirect windows are never resolved")
		return 0, nil
	})

	_, ok, err := tr.mapped(xproto.MapNotifyEvent{Window: 0x400000, OverrideRedirect: true})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMapTrackerRetriesUnresolvedWindow(t *testing.T) {
	ready := false
	tr := newMapTracker(func(top xproto.Window) (window.ID, error) {
		if !ready {
			return 0, errors.New("no client window below frame")
		}
		return window.ID(top), nil
	})

	_, ok, err := tr.mapped(xproto.MapNotifyEvent{Window: 0x600000})
	assert.Error(t, err)
	assert.False(t, ok)

	// The client set WM_CLASS late; the next map of the frame reports it.
	ready = true
	id, ok, err := tr.mapped(xproto.MapNotifyEvent{Window: 0x600000})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, window.ID(0x600000), id)
}
