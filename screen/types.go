package screen

import "fmt"

// Point represents a point in the Virtual Desktop coordinate system.
// Coordinates can be negative (e.g., secondary monitor to the left of primary).
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Rect represents a rectangle in the Virtual Desktop coordinate system.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Monitor represents a physical display device.
type Monitor struct {
	Handle   uintptr
	Bounds   Rect
	WorkArea Rect // Excludes taskbar
	Primary  bool
}
