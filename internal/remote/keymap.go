// Package remote translates desktop keyboard input into set-top-box remote
// control key codes and host page actions.
package remote

// KeyMap maps normalised key names to legacy remote key codes.
type KeyMap map[string]int

// DefaultKeyMap is the remote layout forwarded to portals.
var DefaultKeyMap = KeyMap{
	"F1":         112,
	"F2":         113,
	"F3":         114,
	"F4":         115,
	"F5":         116,
	"F6":         117,
	"Tab":        9,
	"PageUp":     33,
	"PageDown":   34,
	"ArrowLeft":  37,
	"ArrowUp":    38,
	"ArrowRight": 39,
	"ArrowDown":  40,
	"Enter":      13,
	"Escape":     27,
	"Backspace":  8,
}

// Code returns the legacy key code for key.
func (m KeyMap) Code(key string) (int, bool) {
	code, ok := m[key]
	return code, ok
}

// Modifier bits carried with a forwarded key.
const (
	ModShift = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// KeyEvent is a host key-down. Key is the normalised name: the DOM code when
// present, otherwise the DOM key.
type KeyEvent struct {
	Key    string `json:"key"`
	Shift  bool   `json:"shift,omitempty"`
	Ctrl   bool   `json:"ctrl,omitempty"`
	Alt    bool   `json:"alt,omitempty"`
	Meta   bool   `json:"meta,omitempty"`
	Repeat bool   `json:"repeat,omitempty"`
}

// Modifiers returns the modifier bitmask of ev.
func (ev KeyEvent) Modifiers() int {
	var m int
	if ev.Shift {
		m |= ModShift
	}
	if ev.Ctrl {
		m |= ModCtrl
	}
	if ev.Alt {
		m |= ModAlt
	}
	if ev.Meta {
		m |= ModMeta
	}
	return m
}

// ForwardedKey is dispatched into the portal as a synthetic key-down.
type ForwardedKey struct {
	KeyCode   int `json:"keyCode"`
	Which     int `json:"which"`
	Modifiers int `json:"modifiers"`
}

// Shift reports whether the shift bit is set.
func (k ForwardedKey) Shift() bool {
	return k.Modifiers&ModShift != 0
}
