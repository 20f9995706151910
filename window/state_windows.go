//go:build windows

package window

import "fmt"

const swRestore = 9

// Restore un-minimizes hwnd.
func Restore(hwnd uintptr) error {
	if !IsValid(hwnd) {
		return fmt.Errorf("invalid window handle %#x", hwnd)
	}
	// ShowWindow returns the previous visibility, not success.
	ProcShowWindow.Call(hwnd, swRestore)
	return nil
}

// Activate asks the window manager to move hwnd to the foreground. Windows
// may refuse (foreground lock); callers reinforce with a title-bar click.
func Activate(hwnd uintptr) error {
	if !IsValid(hwnd) {
		return fmt.Errorf("invalid window handle %#x", hwnd)
	}
	ProcBringWindowToTop.Call(hwnd)
	r, _, _ := ProcSetForegroundWindow.Call(hwnd)
	if r == 0 {
		return fmt.Errorf("SetForegroundWindow refused for %#x", hwnd)
	}
	return nil
}
