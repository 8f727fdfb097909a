package window

import "fmt"

// ID identifies a top-level window on the display server.
type ID uint32

// String formats the id the way xprop and xdotool print window ids.
func (id ID) String() string {
	return fmt.Sprintf("0x%x", uint32(id))
}

// Info describes a window as reported by the display server
type Info struct {
	ID            ID
	Class         string // WM_CLASS class part, e.g. "Discord"
	Instance      string // WM_CLASS instance part, e.g. "discord"
	Title         string // _NET_WM_NAME, falling back to WM_NAME
	DisplayServer string // "x11"
}

// Resolver resolves window ids to their descriptors
type Resolver interface {
	// Window returns the class and title of the window with the given id
	Window(id ID) (*Info, error)
}

// Killer terminates client windows
type Killer interface {
	// Kill disconnects the client owning the window
	Kill(id ID) error
}

// FocusReader reports the currently focused window
type FocusReader interface {
	// FocusedWindow returns information about the currently focused window
	FocusedWindow() (*Info, error)

	// GetDisplayServer returns the display server type
	GetDisplayServer() string

	// Close cleans up any resources used by the reader
	Close() error
}
