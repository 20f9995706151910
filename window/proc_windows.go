//go:build windows

package window

import (
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	ProcEnumWindows          = user32.NewProc("EnumWindows")
	ProcIsWindowVisible      = user32.NewProc("IsWindowVisible")
	ProcIsWindow             = user32.NewProc("IsWindow")
	ProcIsIconic             = user32.NewProc("IsIconic")
	ProcGetWindowTextW       = user32.NewProc("GetWindowTextW")
	ProcGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	ProcGetWindowRect        = user32.NewProc("GetWindowRect")
	ProcShowWindow           = user32.NewProc("ShowWindow")
	ProcSetForegroundWindow  = user32.NewProc("SetForegroundWindow")
	ProcBringWindowToTop     = user32.NewProc("BringWindowToTop")

	ProcGetCursorPos     = user32.NewProc("GetCursorPos")
	ProcSetCursorPos     = user32.NewProc("SetCursorPos")
	ProcSendInput        = user32.NewProc("SendInput")
	ProcGetSystemMetrics = user32.NewProc("GetSystemMetrics")

	ProcEnumDisplayMonitors       = user32.NewProc("EnumDisplayMonitors")
	ProcGetMonitorInfoW           = user32.NewProc("GetMonitorInfoW")
	ProcSetProcessDpiAwarenessCtx = user32.NewProc("SetProcessDpiAwarenessContext")

	ProcGetDC              = user32.NewProc("GetDC")
	ProcReleaseDC          = user32.NewProc("ReleaseDC")
	ProcCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	ProcCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	ProcSelectObject       = gdi32.NewProc("SelectObject")
	ProcDeleteObject       = gdi32.NewProc("DeleteObject")
	ProcDeleteDC           = gdi32.NewProc("DeleteDC")
	ProcBitBlt             = gdi32.NewProc("BitBlt")
)
