package x11

import (
	"encoding/binary"
	"strings"

	"github.com/jezek/xgb/xproto"
)

// parseWMClass splits a WM_CLASS value, two NUL-terminated strings, into its
// instance and class parts.
func parseWMClass(data []byte) (instance, class string) {
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	instance = parts[0]
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

func parseWindow(data []byte) xproto.Window {
	if len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

func propString(data []byte) string {
	return strings.TrimRight(string(data), "\x00")
}
