//go:build !windows

package keyboard

import "github.com/rpdg/groupsend/window"

func KeyDown(k Key) error { return window.ErrUnsupportedPlatform }

func KeyUp(k Key) error { return window.ErrUnsupportedPlatform }

func Press(k Key) error { return window.ErrUnsupportedPlatform }

func PressHotkey(keys ...Key) error { return window.ErrUnsupportedPlatform }

func TypeUnicode(text string) error { return window.ErrUnsupportedPlatform }
