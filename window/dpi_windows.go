//go:build windows

package window

import (
	"fmt"
	"sync"
)

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is (HANDLE)(-4)
var dpiAwarenessPerMonitorV2 = ^uintptr(3)

var (
	dpiOnce sync.Once
	dpiErr  error
)

// EnablePerMonitorDPI switches the process to per-monitor DPI awareness so
// captured pixels and cursor coordinates share one coordinate system. Only the
// first call does any work; the process setting cannot be changed twice.
func EnablePerMonitorDPI() error {
	dpiOnce.Do(func() {
		if ProcSetProcessDpiAwarenessCtx.Find() != nil {
			dpiErr = fmt.Errorf("SetProcessDpiAwarenessContext not found")
			return
		}
		r, _, _ := ProcSetProcessDpiAwarenessCtx.Call(dpiAwarenessPerMonitorV2)
		if r == 0 {
			// Also returned when awareness was already set by a manifest.
			dpiErr = fmt.Errorf("SetProcessDpiAwarenessContext failed")
		}
	})
	return dpiErr
}
