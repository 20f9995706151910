// Package mouse moves and clicks the system cursor in virtual-desktop
// coordinates (which may be negative on multi-monitor layouts).
package mouse
