//go:build windows

package screen

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/rpdg/groupsend/window"
)

const (
	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCXVirtualScreen = 78
	smCYVirtualScreen = 79
)

// VirtualBounds returns the bounding rectangle of the entire virtual desktop.
// This includes all monitors.
func VirtualBounds() Rect {
	x, _, _ := window.ProcGetSystemMetrics.Call(smXVirtualScreen)
	y, _, _ := window.ProcGetSystemMetrics.Call(smYVirtualScreen)
	w, _, _ := window.ProcGetSystemMetrics.Call(smCXVirtualScreen)
	h, _, _ := window.ProcGetSystemMetrics.Call(smCYVirtualScreen)

	left, top := int(int32(x)), int(int32(y))
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + int(int32(w)),
		Bottom: top + int(int32(h)),
	}
}

// Monitors returns a list of all active monitors.
func Monitors() ([]Monitor, error) {
	var monitors []Monitor

	cb := windows.NewCallback(func(hMonitor uintptr, hdcMonitor uintptr, lprcMonitor uintptr, dwData uintptr) uintptr {
		var mi monitorInfoExW
		mi.Size = uint32(unsafe.Sizeof(mi))

		ret, _, _ := window.ProcGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
		if ret != 0 {
			monitors = append(monitors, Monitor{
				Handle:   hMonitor,
				Bounds:   mi.Monitor.rect(),
				WorkArea: mi.Work.rect(),
				Primary:  (mi.Flags & 1) != 0, // MONITORINFOF_PRIMARY = 1
			})
		}
		return 1
	})

	window.ProcEnumDisplayMonitors.Call(0, 0, cb, 0)
	return monitors, nil
}

type rectStruct struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

func (r rectStruct) rect() Rect {
	return Rect{Left: int(r.Left), Top: int(r.Top), Right: int(r.Right), Bottom: int(r.Bottom)}
}

type monitorInfoExW struct {
	Size    uint32
	Monitor rectStruct
	Work    rectStruct
	Flags   uint32
	Device  [32]uint16
}
