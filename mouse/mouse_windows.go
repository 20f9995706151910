//go:build windows

package mouse

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/rpdg/groupsend/window"
)

const (
	mouseeventfLeftDown = 0x0002
	mouseeventfLeftUp   = 0x0004
)

type point struct {
	X int32
	Y int32
}

// Move puts the cursor at virtual-desktop coordinates (x, y).
func Move(x, y int) error {
	r, _, _ := window.ProcSetCursorPos.Call(uintptr(int32(x)), uintptr(int32(y)))
	if r == 0 {
		return fmt.Errorf("SetCursorPos(%d, %d) failed", x, y)
	}
	return nil
}

// Click moves to (x, y) and performs a left click there.
func Click(x, y int) error {
	if err := Move(x, y); err != nil {
		return err
	}
	time.Sleep(30 * time.Millisecond)
	return ClickCurrent()
}

// ClickCurrent left-clicks wherever the cursor is. An error means the
// system refused the injected events, typically because the window under
// the cursor belongs to an elevated process.
func ClickCurrent() error {
	if err := window.SendInput(window.MouseEvent(window.MouseInput{Flags: mouseeventfLeftDown})); err != nil {
		return fmt.Errorf("left button down: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := window.SendInput(window.MouseEvent(window.MouseInput{Flags: mouseeventfLeftUp})); err != nil {
		return fmt.Errorf("left button up: %w", err)
	}
	return nil
}

// Position returns the cursor location in virtual-desktop coordinates.
func Position() (x, y int, err error) {
	var p point
	r, _, _ := window.ProcGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if r == 0 {
		return 0, 0, fmt.Errorf("GetCursorPos failed")
	}
	return int(p.X), int(p.Y), nil
}
