// Package keyboard injects global keystrokes into whichever window owns the
// keyboard focus.
package keyboard

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is a Windows virtual-key code.
type Key uint16

const (
	KeyBackspace Key = 0x08
	KeyTab       Key = 0x09
	KeyEnter     Key = 0x0D
	KeyShift     Key = 0x10
	KeyCtrl      Key = 0x11
	KeyAlt       Key = 0x12
	KeyEsc       Key = 0x1B
	KeySpace     Key = 0x20
	KeyPageUp    Key = 0x21
	KeyPageDown  Key = 0x22
	KeyEnd       Key = 0x23
	KeyHome      Key = 0x24
	KeyLeft      Key = 0x25
	KeyArrowUp   Key = 0x26
	KeyRight     Key = 0x27
	KeyArrowDown Key = 0x28
	KeyInsert    Key = 0x2D
	KeyDelete    Key = 0x2E

	Key0 Key = '0'
	Key1 Key = '1'
	Key2 Key = '2'
	Key3 Key = '3'
	Key4 Key = '4'
	Key5 Key = '5'
	Key6 Key = '6'
	Key7 Key = '7'
	Key8 Key = '8'
	Key9 Key = '9'

	KeyA Key = 'A'
	KeyB Key = 'B'
	KeyC Key = 'C'
	KeyD Key = 'D'
	KeyE Key = 'E'
	KeyF Key = 'F'
	KeyG Key = 'G'
	KeyH Key = 'H'
	KeyI Key = 'I'
	KeyJ Key = 'J'
	KeyK Key = 'K'
	KeyL Key = 'L'
	KeyM Key = 'M'
	KeyN Key = 'N'
	KeyO Key = 'O'
	KeyP Key = 'P'
	KeyQ Key = 'Q'
	KeyR Key = 'R'
	KeyS Key = 'S'
	KeyT Key = 'T'
	KeyU Key = 'U'
	KeyV Key = 'V'
	KeyW Key = 'W'
	KeyX Key = 'X'
	KeyY Key = 'Y'
	KeyZ Key = 'Z'

	KeyF1  Key = 0x70
	KeyF2  Key = 0x71
	KeyF3  Key = 0x72
	KeyF4  Key = 0x73
	KeyF5  Key = 0x74
	KeyF6  Key = 0x75
	KeyF7  Key = 0x76
	KeyF8  Key = 0x77
	KeyF9  Key = 0x78
	KeyF10 Key = 0x79
	KeyF11 Key = 0x7A
	KeyF12 Key = 0x7B
)

var names = map[Key]string{
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyEnter:     "enter",
	KeyShift:     "shift",
	KeyCtrl:      "ctrl",
	KeyAlt:       "alt",
	KeyEsc:       "esc",
	KeySpace:     "space",
	KeyPageUp:    "pageup",
	KeyPageDown:  "pagedown",
	KeyEnd:       "end",
	KeyHome:      "home",
	KeyLeft:      "left",
	KeyArrowUp:   "up",
	KeyRight:     "right",
	KeyArrowDown: "down",
	KeyInsert:    "insert",
	KeyDelete:    "delete",
}

func (k Key) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	switch {
	case k >= Key0 && k <= Key9, k >= KeyA && k <= KeyZ:
		return strings.ToLower(string(rune(k)))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("f%d", int(k-KeyF1)+1)
	}
	return fmt.Sprintf("vk(%#02x)", uint16(k))
}

// Extended reports whether the key sits on the extended part of the
// keyboard and needs KEYEVENTF_EXTENDEDKEY when injected by virtual key.
func (k Key) Extended() bool {
	switch k {
	case KeyPageUp, KeyPageDown, KeyEnd, KeyHome,
		KeyLeft, KeyArrowUp, KeyRight, KeyArrowDown,
		KeyInsert, KeyDelete:
		return true
	}
	return false
}

// Parse maps a name as printed by Key.String ("ctrl", "down", "v", "f5")
// back to a Key. Matching is case-insensitive.
func Parse(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range names {
		if n == name {
			return k, true
		}
	}
	switch name {
	case "return":
		return KeyEnter, true
	case "control":
		return KeyCtrl, true
	case "escape":
		return KeyEsc, true
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return Key(c - 'a' + 'A'), true
		case c >= '0' && c <= '9':
			return Key(c), true
		}
	}
	if len(name) >= 2 && name[0] == 'f' {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= 12 {
			return KeyF1 + Key(n-1), true
		}
	}
	return 0, false
}

// Combo renders a hotkey as "ctrl+v" for logs.
func Combo(keys ...Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, "+")
}
