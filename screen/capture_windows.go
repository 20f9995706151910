//go:build windows

package screen

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/rpdg/groupsend/window"
)

// GDI Constants & Types
const (
	SRCCOPY        = 0x00CC0020
	DIB_RGB_COLORS = 0
	BI_RGB         = 0
)

type BITMAPINFOHEADER struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

// CaptureVirtualDesktop captures the entire virtual desktop using the efficient CreateDIBSection method.
// The returned image's Bounds().Min is the virtual desktop's top-left corner,
// so image coordinates are screen coordinates.
func CaptureVirtualDesktop() (*image.RGBA, error) {
	// Mixed-DPI setups report scaled coordinates otherwise. A failure here
	// usually means awareness was already fixed by a manifest.
	_ = window.EnablePerMonitorDPI()

	b := VirtualBounds()
	width := int32(b.Width())
	height := int32(b.Height())
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty virtual desktop: %dx%d", width, height)
	}

	// Safety check for huge resolutions
	// 4 bytes per pixel. Limit to approx 500MB (e.g. 11000 x 11000)
	if int64(width)*int64(height)*4 > 1024*1024*500 {
		return nil, fmt.Errorf("resolution too large for single capture: %dx%d (exceeds 500MB)", width, height)
	}

	// GetDC(0) returns the DC for the entire virtual screen
	hScreenDC, _, _ := window.ProcGetDC.Call(0)
	if hScreenDC == 0 {
		return nil, fmt.Errorf("GetDC failed")
	}
	defer window.ProcReleaseDC.Call(0, hScreenDC)

	hMemDC, _, _ := window.ProcCreateCompatibleDC.Call(hScreenDC)
	if hMemDC == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC failed")
	}
	defer window.ProcDeleteDC.Call(hMemDC)

	// We use a top-down DIB (negative height) so (0,0) is top-left.
	bmi := BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(BITMAPINFOHEADER{})),
		BiWidth:       width,
		BiHeight:      -height, // Negative for Top-Down
		BiPlanes:      1,
		BiBitCount:    32, // BGRA
		BiCompression: BI_RGB,
	}

	var ppvBits uintptr // Pointer to the raw pixel data
	hBitmap, _, _ := window.ProcCreateDIBSection.Call(
		hMemDC,
		uintptr(unsafe.Pointer(&bmi)),
		DIB_RGB_COLORS,
		uintptr(unsafe.Pointer(&ppvBits)),
		0, 0,
	)
	if hBitmap == 0 {
		return nil, fmt.Errorf("CreateDIBSection failed")
	}
	defer window.ProcDeleteObject.Call(hBitmap)

	oldObj, _, _ := window.ProcSelectObject.Call(hMemDC, hBitmap)
	if oldObj == 0 {
		return nil, fmt.Errorf("SelectObject failed")
	}
	// Restore old object before deleting MemDC
	defer window.ProcSelectObject.Call(hMemDC, oldObj)

	// Because hBitmap is selected in hMemDC, BitBlt writes directly to ppvBits.
	ret, _, _ := window.ProcBitBlt.Call(
		hMemDC,
		0, 0, uintptr(width), uintptr(height),
		hScreenDC,
		uintptr(int32(b.Left)), uintptr(int32(b.Top)), // Source coords on virtual screen
		SRCCOPY,
	)
	if ret == 0 {
		return nil, fmt.Errorf("BitBlt failed")
	}

	totalBytes := int(width) * int(height) * 4

	// The DIB is freed on return, so copy out of it.
	srcBytes := unsafe.Slice((*byte)(unsafe.Pointer(ppvBits)), totalBytes)
	dstBytes := make([]byte, totalBytes)

	// BGRA -> RGBA conversion loop
	for i := 0; i < totalBytes; i += 4 {
		dstBytes[i] = srcBytes[i+2]
		dstBytes[i+1] = srcBytes[i+1]
		dstBytes[i+2] = srcBytes[i]
		// DWM may leave alpha at 0; matching only wants solid colors.
		dstBytes[i+3] = 255
	}

	return &image.RGBA{
		Pix:    dstBytes,
		Stride: int(width * 4),
		Rect:   image.Rect(b.Left, b.Top, b.Right, b.Bottom),
	}, nil
}

// DesktopCapturer captures the whole virtual desktop on each call.
type DesktopCapturer struct{}

func (DesktopCapturer) Capture() (image.Image, error) {
	img, err := CaptureVirtualDesktop()
	if err != nil {
		return nil, err
	}
	return img, nil
}
