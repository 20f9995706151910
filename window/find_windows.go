//go:build windows

package window

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

type rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// FindByTitle returns every visible top-level window whose title contains
// substr, in Z-order. An empty result is not an error.
func FindByTitle(substr string) ([]Info, error) {
	var found []Info

	cb := windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if !IsVisible(hwnd) {
			return 1
		}
		title := Title(hwnd)
		if title == "" || !strings.Contains(title, substr) {
			return 1
		}
		info, err := Describe(hwnd)
		if err == nil {
			found = append(found, info)
		}
		return 1 // Continue enumeration
	})

	r, _, err := ProcEnumWindows.Call(cb, 0)
	if r == 0 && len(found) == 0 && err != nil && err != windows.ERROR_SUCCESS {
		return nil, fmt.Errorf("EnumWindows failed: %w", err)
	}
	return found, nil
}

// Describe snapshots title, rectangle and minimized state of hwnd.
func Describe(hwnd uintptr) (Info, error) {
	if !IsValid(hwnd) {
		return Info{}, fmt.Errorf("invalid window handle %#x", hwnd)
	}
	var rc rect
	r, _, _ := ProcGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&rc)))
	if r == 0 {
		return Info{}, fmt.Errorf("GetWindowRect failed for %#x", hwnd)
	}
	return Info{
		Handle:    hwnd,
		Title:     Title(hwnd),
		Left:      int(rc.Left),
		Top:       int(rc.Top),
		Width:     int(rc.Right - rc.Left),
		Height:    int(rc.Bottom - rc.Top),
		Minimized: IsIconic(hwnd),
	}, nil
}

func Title(hwnd uintptr) string {
	n, _, _ := ProcGetWindowTextLengthW.Call(hwnd)
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	r, _, _ := ProcGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:r])
}

func IsValid(hwnd uintptr) bool {
	r, _, _ := ProcIsWindow.Call(hwnd)
	return r != 0
}

func IsVisible(hwnd uintptr) bool {
	r, _, _ := ProcIsWindowVisible.Call(hwnd)
	return r != 0
}

func IsIconic(hwnd uintptr) bool {
	r, _, _ := ProcIsIconic.Call(hwnd)
	return r != 0
}
