//go:build !windows

package mouse

import "github.com/rpdg/groupsend/window"

func Move(x, y int) error { return window.ErrUnsupportedPlatform }

func Click(x, y int) error { return window.ErrUnsupportedPlatform }

func ClickCurrent() error { return window.ErrUnsupportedPlatform }

func Position() (x, y int, err error) { return 0, 0, window.ErrUnsupportedPlatform }
