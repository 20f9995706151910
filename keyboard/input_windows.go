//go:build windows

package keyboard

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows"

	"github.com/rpdg/groupsend/window"
)

const (
	keyeventfExtended = 0x0001
	keyeventfKeyUp    = 0x0002
	keyeventfUnicode  = 0x0004
)

func vkEvent(k Key, up bool) window.Input {
	var flags uint32
	if k.Extended() {
		flags |= keyeventfExtended
	}
	if up {
		flags |= keyeventfKeyUp
	}
	return window.KeyboardEvent(window.KeybdInput{Vk: uint16(k), Flags: flags})
}

// KeyDown simulates a global key down event.
func KeyDown(k Key) error {
	return window.SendInput(vkEvent(k, false))
}

// KeyUp simulates a global key up event.
func KeyUp(k Key) error {
	return window.SendInput(vkEvent(k, true))
}

// Press simulates a global key press (Down + Up).
func Press(k Key) error {
	if err := KeyDown(k); err != nil {
		return err
	}
	// Default delay for key press to be registered by most apps
	time.Sleep(30 * time.Millisecond)
	return KeyUp(k)
}

// PressHotkey holds keys down in order and releases them in reverse.
func PressHotkey(keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	for i, k := range keys {
		if err := KeyDown(k); err != nil {
			releaseAll(keys[:i])
			return err
		}
		time.Sleep(10 * time.Millisecond)
	}
	// Hold the combination briefly
	time.Sleep(30 * time.Millisecond)
	for i := len(keys) - 1; i >= 0; i-- {
		if err := KeyUp(keys[i]); err != nil {
			return err
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func releaseAll(keys []Key) {
	for i := len(keys) - 1; i >= 0; i-- {
		_ = KeyUp(keys[i])
	}
}

// TypeUnicode injects text as KEYEVENTF_UNICODE packets, one UTF-16 unit
// per down/up pair, bypassing the active keyboard layout.
func TypeUnicode(text string) error {
	units, err := windows.UTF16FromString(text)
	if err != nil {
		return fmt.Errorf("encode text: %w", err)
	}
	units = units[:len(units)-1] // drop terminating NUL

	for _, u := range units {
		down := window.KeyboardEvent(window.KeybdInput{Scan: u, Flags: keyeventfUnicode})
		up := window.KeyboardEvent(window.KeybdInput{Scan: u, Flags: keyeventfUnicode | keyeventfKeyUp})
		if err := window.SendInput(down, up); err != nil {
			return err
		}
		// Delay between characters
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}
