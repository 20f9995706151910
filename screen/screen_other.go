//go:build !windows

package screen

import (
	"image"

	"github.com/rpdg/groupsend/window"
)

func CaptureVirtualDesktop() (*image.RGBA, error) { return nil, window.ErrUnsupportedPlatform }

func VirtualBounds() Rect { return Rect{} }

func Monitors() ([]Monitor, error) { return nil, window.ErrUnsupportedPlatform }

type DesktopCapturer struct{}

func (DesktopCapturer) Capture() (image.Image, error) { return nil, window.ErrUnsupportedPlatform }
