// Package window locates top-level windows by title and commands them
// (restore, foreground). Only Windows is implemented; other platforms return
// ErrUnsupportedPlatform so callers build everywhere.
package window

import "errors"

// ErrUnsupportedPlatform implies the call needs the Win32 window manager.
var ErrUnsupportedPlatform = errors.New("desktop automation is only supported on windows")

// Info is a snapshot of a top-level window. Handle is the HWND; the geometry
// is in virtual-desktop coordinates as reported by GetWindowRect.
type Info struct {
	Handle    uintptr
	Title     string
	Left      int
	Top       int
	Width     int
	Height    int
	Minimized bool
}

// TitleBarPoint returns a point inside the caption area: horizontally
// centered, offset pixels below the top edge.
func (i Info) TitleBarPoint(offset int) (x, y int) {
	return i.Left + i.Width/2, i.Top + offset
}
