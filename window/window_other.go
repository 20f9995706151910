//go:build !windows

package window

func FindByTitle(substr string) ([]Info, error) { return nil, ErrUnsupportedPlatform }

func Describe(hwnd uintptr) (Info, error) { return Info{}, ErrUnsupportedPlatform }

func Restore(hwnd uintptr) error { return ErrUnsupportedPlatform }

func Activate(hwnd uintptr) error { return ErrUnsupportedPlatform }

func EnablePerMonitorDPI() error { return ErrUnsupportedPlatform }

func Title(hwnd uintptr) string { return "" }

func IsValid(hwnd uintptr) bool { return false }

func IsVisible(hwnd uintptr) bool { return false }

func IsIconic(hwnd uintptr) bool { return false }

func SendInput(inputs ...Input) error { return ErrUnsupportedPlatform }
