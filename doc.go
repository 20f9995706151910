// Package groupsend drives a desktop chat client to post a message into one
// group chat, using only window-manager calls, synthetic input and screen
// template matching.
//
// The root package is the OS facade: Desktop bundles window discovery,
// keyboard and mouse injection, screen capture and the system clipboard
// behind the small interfaces the workflow packages consume.
//
// Example:
//
//	d := groupsend.NewDesktop()
//	wins, err := d.FindByTitle("微信")
//	if err != nil || len(wins) == 0 {
//	    return
//	}
//	d.Activate(wins[0])
//	d.PressHotkey(keyboard.KeyCtrl, keyboard.KeyF)
package groupsend
