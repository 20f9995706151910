package window

import "unsafe"

// Input event types for SendInput.
const (
	InputMouse    = 0
	InputKeyboard = 1
)

// MouseInput is the Win32 MOUSEINPUT. It is the largest member of the INPUT
// union, so embedding it gives Input the native size and alignment on every
// architecture (28 bytes on 386, 40 on amd64 and arm64).
type MouseInput struct {
	Dx        int32
	Dy        int32
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// KeybdInput is the Win32 KEYBDINPUT.
type KeybdInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// Input is the Win32 INPUT structure.
type Input struct {
	Type uint32
	mi   MouseInput
}

func MouseEvent(mi MouseInput) Input {
	return Input{Type: InputMouse, mi: mi}
}

func KeyboardEvent(ki KeybdInput) Input {
	in := Input{Type: InputKeyboard}
	*(*KeybdInput)(unsafe.Pointer(&in.mi)) = ki
	return in
}

// Mouse returns the event as a MOUSEINPUT.
func (in *Input) Mouse() MouseInput { return in.mi }

// Keyboard returns the event as a KEYBDINPUT.
func (in *Input) Keyboard() KeybdInput { return *(*KeybdInput)(unsafe.Pointer(&in.mi)) }
