package groupsend

import (
	"fmt"
	"image"
	"os/exec"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/rpdg/groupsend/keyboard"
	"github.com/rpdg/groupsend/mouse"
	"github.com/rpdg/groupsend/screen"
	"github.com/rpdg/groupsend/window"
)

// Desktop is the live desktop session: the window manager, global keyboard
// and mouse injection, and virtual-desktop capture. It holds no state; every
// call goes to the OS.
type Desktop struct{}

// NewDesktop enables per-monitor DPI awareness so window rectangles, cursor
// positions and captures all use physical pixels, then returns the facade.
// Failure to change DPI awareness is not fatal and is ignored.
func NewDesktop() *Desktop {
	_ = window.EnablePerMonitorDPI()
	return &Desktop{}
}

// -----------------------------------------------------------------------------
// Windows
// -----------------------------------------------------------------------------

// FindByTitle lists visible top-level windows whose title contains substr.
func (d *Desktop) FindByTitle(substr string) ([]window.Info, error) {
	return window.FindByTitle(substr)
}

func (d *Desktop) Restore(w window.Info) error {
	return window.Restore(w.Handle)
}

func (d *Desktop) Activate(w window.Info) error {
	return window.Activate(w.Handle)
}

// Start launches the executable at path without waiting for it. The child
// runs from its own directory, as it would from a shortcut.
func (d *Desktop) Start(path string) error {
	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", path, err)
	}
	return cmd.Process.Release()
}

// -----------------------------------------------------------------------------
// Mouse (virtual-desktop coordinates, may be negative)
// -----------------------------------------------------------------------------

func (d *Desktop) Click(x, y int) error {
	return mouse.Click(x, y)
}

func (d *Desktop) ClickCurrent() error {
	return mouse.ClickCurrent()
}

func (d *Desktop) Position() (x, y int, err error) {
	return mouse.Position()
}

// -----------------------------------------------------------------------------
// Keyboard (goes to whichever window has focus)
// -----------------------------------------------------------------------------

func (d *Desktop) Press(k keyboard.Key) error {
	return keyboard.Press(k)
}

func (d *Desktop) PressHotkey(keys ...keyboard.Key) error {
	return keyboard.PressHotkey(keys...)
}

func (d *Desktop) TypeUnicode(text string) error {
	return keyboard.TypeUnicode(text)
}

// -----------------------------------------------------------------------------
// Screen
// -----------------------------------------------------------------------------

// Capture grabs the whole virtual desktop. The image bounds are the desktop
// bounds, so the origin is negative when a monitor sits left of or above the
// primary one.
func (d *Desktop) Capture() (image.Image, error) {
	return screen.DesktopCapturer{}.Capture()
}

func (d *Desktop) VirtualBounds() screen.Rect {
	return screen.VirtualBounds()
}

func (d *Desktop) Monitors() ([]screen.Monitor, error) {
	return screen.Monitors()
}

// SystemClipboard is the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupportedPlatform
	}
	return clipboard.ReadAll()
}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupportedPlatform
	}
	return clipboard.WriteAll(text)
}
