// Package x11 talks to the X server: it reports newly mapped top-level
// windows, reads their WM_CLASS and title, and disconnects their clients.
// It only selects SubstructureNotify on the root window, so it runs alongside
// whatever window manager is in charge.
package x11

import (
	"context"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pomoblock/pomoblock/pkg/window"
)

const displayServer = "x11"

// maxClientDepth bounds the search for the client window below a frame.
const maxClientDepth = 3

// Handler is called once for every newly mapped client window.
type Handler func(id window.ID) error

// ErrorFunc receives errors that Run does not stop for. id is zero when the
// error is not tied to a window.
type ErrorFunc func(id window.ID, err error)

// Host is a connection to the X server.
type Host struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
	log   *zap.Logger
}

var atomNames = []string{
	"WM_CLASS",
	"WM_NAME",
	"_NET_WM_NAME",
	"_NET_ACTIVE_WINDOW",
	"UTF8_STRING",
}

// Connect opens display (the DISPLAY environment variable when empty) and
// interns the atoms the host needs.
func Connect(display string, logger *zap.Logger) (*Host, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	h := &Host{
		conn:  conn,
		root:  xproto.Setup(conn).DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom, len(atomNames)),
		log:   logger.Named("x11"),
	}
	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to intern atom %s", name)
		}
		h.atoms[name] = reply.Atom
	}
	return h, nil
}

// GetDisplayServer returns "x11".
func (h *Host) GetDisplayServer() string {
	return displayServer
}

// Close closes the connection. A running Run returns once the connection is gone.
func (h *Host) Close() error {
	h.conn.Close()
	return nil
}

type eventOrError struct {
	event xgb.Event
	err   xgb.Error
}

// Run listens for new top-level windows until ctx is done or the connection
// drops. handle runs on Run's goroutine, one window at a time; its errors go
// to onErr and never stop the loop.
func (h *Host) Run(ctx context.Context, handle Handler, onErr ErrorFunc) error {
	if onErr == nil {
		onErr = func(window.ID, error) {}
	}

	err := xproto.ChangeWindowAttributesChecked(h.conn, h.root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskSubstructureNotify}).Check()
	if err != nil {
		return errors.Wrap(err, "failed to select events on the root window")
	}
	h.log.Info("listening for new windows", zap.Stringer("root", window.ID(h.root)))

	events := make(chan eventOrError)
	go func() {
		defer close(events)
		for {
			ev, xerr := h.conn.WaitForEvent()
			if ev == nil && xerr == nil {
				return
			}
			select {
			case events <- eventOrError{ev, xerr}:
			case <-ctx.Done():
				return
			}
		}
	}()

	tracker := newMapTracker(h.clientOf)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ee, ok := <-events:
			if !ok {
				return errors.New("X server connection closed")
			}
			if ee.err != nil {
				onErr(0, errors.Wrap(ee.err, "X protocol error"))
				continue
			}
			switch e := ee.event.(type) {
			case xproto.MapNotifyEvent:
				id, ok, err := tracker.mapped(e)
				if err != nil {
					onErr(window.ID(e.Window), err)
					continue
				}
				if !ok {
					continue
				}
				if err := handle(id); err != nil {
					onErr(id, err)
				}
			case xproto.DestroyNotifyEvent:
				tracker.destroyed(e.Window)
			}
		}
	}
}

// clientOf returns the window carrying WM_CLASS at or below top. Reparenting
// window managers map a frame on the root and put the client inside it.
func (h *Host) clientOf(top xproto.Window) (window.ID, error) {
	if w, ok := h.findClient(top, maxClientDepth); ok {
		return window.ID(w), nil
	}
	return 0, errors.Errorf("no client window below %s", window.ID(top))
}

func (h *Host) findClient(w xproto.Window, depth int) (xproto.Window, bool) {
	if data, err := h.property(w, h.atoms["WM_CLASS"], xproto.AtomString, 64); err == nil && len(data) > 0 {
		return w, true
	}
	if depth == 0 {
		return 0, false
	}
	tree, err := xproto.QueryTree(h.conn, w).Reply()
	if err != nil {
		return 0, false
	}
	for _, child := range tree.Children {
		if c, ok := h.findClient(child, depth-1); ok {
			return c, true
		}
	}
	return 0, false
}

// Window reads the class and title of id.
func (h *Host) Window(id window.ID) (*window.Info, error) {
	w := xproto.Window(id)
	data, err := h.property(w, h.atoms["WM_CLASS"], xproto.AtomString, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read WM_CLASS of %s", id)
	}
	instance, class := parseWMClass(data)
	return &window.Info{
		ID:            id,
		Class:         class,
		Instance:      instance,
		Title:         h.title(w),
		DisplayServer: displayServer,
	}, nil
}

// Kill disconnects the client that owns id, closing all of its windows.
func (h *Host) Kill(id window.ID) error {
	if err := xproto.KillClientChecked(h.conn, uint32(id)).Check(); err != nil {
		return errors.Wrapf(err, "failed to kill client of %s", id)
	}
	return nil
}

// FocusedWindow returns the window named by _NET_ACTIVE_WINDOW, falling back
// to the input focus.
func (h *Host) FocusedWindow() (*window.Info, error) {
	w := h.activeWindow()
	if w == 0 {
		return nil, errors.New("no active window found")
	}
	id, err := h.clientOf(w)
	if err != nil {
		return nil, err
	}
	return h.Window(id)
}

func (h *Host) activeWindow() xproto.Window {
	data, err := h.property(h.root, h.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err == nil {
		if w := parseWindow(data); w != 0 {
			return w
		}
	}

	focus, err := xproto.GetInputFocus(h.conn).Reply()
	if err != nil || focus.Focus == h.root || focus.Focus <= xproto.InputFocusPointerRoot {
		return 0
	}
	return h.topLevel(focus.Focus)
}

func (h *Host) topLevel(w xproto.Window) xproto.Window {
	for {
		tree, err := xproto.QueryTree(h.conn, w).Reply()
		if err != nil || tree.Parent == h.root || tree.Parent == 0 {
			return w
		}
		w = tree.Parent
	}
}

func (h *Host) title(w xproto.Window) string {
	if data, err := h.property(w, h.atoms["_NET_WM_NAME"], h.atoms["UTF8_STRING"], 256); err == nil && len(data) > 0 {
		return propString(data)
	}
	if data, err := h.property(w, h.atoms["WM_NAME"], xproto.GetPropertyTypeAny, 256); err == nil {
		return propString(data)
	}
	return ""
}

// property reads up to length 32-bit units of a property.
func (h *Host) property(w xproto.Window, prop, typ xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(h.conn, false, w, prop, typ, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}
