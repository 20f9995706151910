//go:build windows

package window

import (
	"fmt"
	"unsafe"
)

// SendInput injects events into the system input stream.
func SendInput(inputs ...Input) error {
	if len(inputs) == 0 {
		return nil
	}
	n, _, err := ProcSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		// UIPI blocks injection into windows of a higher integrity level.
		return fmt.Errorf("SendInput inserted %d of %d events: %v", n, len(inputs), err)
	}
	return nil
}
