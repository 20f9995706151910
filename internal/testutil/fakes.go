// Package testutil provides in-memory stand-ins for the desktop: windows,
// a keyboard typing into one simulated text field, the clipboard, the mouse
// and the screen locator.
package testutil

import (
	"errors"
	"image"
	"strings"
	"sync"

	"github.com/rpdg/groupsend/keyboard"
	"github.com/rpdg/groupsend/screen"
	"github.com/rpdg/groupsend/window"
)

// ErrInjected is a generic failure for tests that only care that a call failed.
var ErrInjected = errors.New("injected failure")

// Clipboard holds one string.
type Clipboard struct {
	mu      sync.Mutex
	Text    string
	ReadErr error
	// WriteErr, when set, is consulted before every write.
	WriteErr func(text string) error
	writes   []string
}

func (c *Clipboard) ReadAll() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ReadErr != nil {
		return "", c.ReadErr
	}
	return c.Text, nil
}

func (c *Clipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.WriteErr != nil {
		if err := c.WriteErr(text); err != nil {
			return err
		}
	}
	c.writes = append(c.writes, text)
	c.Text = text
	return nil
}

// Writes returns every successful write in order.
func (c *Clipboard) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

func (c *Clipboard) get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Text
}

// Keyboard records every key event and applies it to Field the way a
// single-line edit control would: Ctrl+A selects all, Backspace deletes the
// selection (or the last rune), Ctrl+V and TypeUnicode insert text.
type Keyboard struct {
	mu        sync.Mutex
	Clipboard *Clipboard
	Field     string
	// Fail maps an event name ("ctrl+v", "enter", "type") to its error.
	Fail     map[string]error
	events   []string
	selected bool
}

func (k *Keyboard) record(name string) error {
	k.events = append(k.events, name)
	if err, ok := k.Fail[name]; ok {
		return err
	}
	return nil
}

func (k *Keyboard) insert(text string) {
	if k.selected {
		k.Field = ""
		k.selected = false
	}
	k.Field += text
}

func (k *Keyboard) Press(key keyboard.Key) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.record(key.String()); err != nil {
		return err
	}
	switch key {
	case keyboard.KeyBackspace:
		if k.selected {
			k.Field = ""
		} else if r := []rune(k.Field); len(r) > 0 {
			k.Field = string(r[:len(r)-1])
		}
	}
	k.selected = false
	return nil
}

func (k *Keyboard) PressHotkey(keys ...keyboard.Key) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	combo := keyboard.Combo(keys...)
	if err := k.record(combo); err != nil {
		return err
	}
	switch combo {
	case "ctrl+a":
		k.selected = true
	case "ctrl+v":
		if k.Clipboard != nil {
			k.insert(k.Clipboard.get())
		}
	}
	return nil
}

func (k *Keyboard) TypeUnicode(text string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.record("type"); err != nil {
		return err
	}
	k.insert(text)
	return nil
}

// Events returns the recorded event names in order.
func (k *Keyboard) Events() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.events...)
}

// Text returns the simulated field contents.
func (k *Keyboard) Text() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Field
}

// SetText replaces the field contents, e.g. when focus moves to another
// control that already holds text.
func (k *Keyboard) SetText(s string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.Field = s
	k.selected = false
}

// Windows is a fake window manager.
type Windows struct {
	mu          sync.Mutex
	List        []window.Info
	FindErr     error
	RestoreErr  error
	ActivateErr error

	finds     int
	pending   []window.Info
	showAt    int
	restored  []window.Info
	activated []window.Info
}

// ShowAfter makes infos appear on the n-th FindByTitle call from now.
func (w *Windows) ShowAfter(n int, infos ...window.Info) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = infos
	w.showAt = w.finds + n
}

func (w *Windows) FindByTitle(substr string) ([]window.Info, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finds++
	if w.pending != nil && w.finds >= w.showAt {
		w.List = append(w.List, w.pending...)
		w.pending = nil
	}
	if w.FindErr != nil {
		return nil, w.FindErr
	}
	var out []window.Info
	for _, info := range w.List {
		if strings.Contains(info.Title, substr) {
			out = append(out, info)
		}
	}
	return out, nil
}

func (w *Windows) Restore(info window.Info) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.RestoreErr != nil {
		return w.RestoreErr
	}
	w.restored = append(w.restored, info)
	for i := range w.List {
		if w.List[i].Handle == info.Handle {
			w.List[i].Minimized = false
		}
	}
	return nil
}

func (w *Windows) Activate(info window.Info) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ActivateErr != nil {
		return w.ActivateErr
	}
	w.activated = append(w.activated, info)
	return nil
}

func (w *Windows) Finds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finds
}

func (w *Windows) Restored() []window.Info {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]window.Info(nil), w.restored...)
}

func (w *Windows) Activated() []window.Info {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]window.Info(nil), w.activated...)
}

// Launcher records started executables.
type Launcher struct {
	mu      sync.Mutex
	Err     error
	OnStart func(path string)
	started []string
}

func (l *Launcher) Start(path string) error {
	l.mu.Lock()
	l.started = append(l.started, path)
	err, hook := l.Err, l.OnStart
	l.mu.Unlock()
	if err != nil {
		return err
	}
	if hook != nil {
		hook(path)
	}
	return nil
}

func (l *Launcher) Started() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.started...)
}

// Mouse tracks the pointer and records clicks.
type Mouse struct {
	mu       sync.Mutex
	Pos      screen.Point
	ClickErr error
	// OnClick runs after every successful click at the clicked point.
	OnClick func(p screen.Point)
	clicks   []screen.Point
}

func (m *Mouse) Click(x, y int) error {
	m.mu.Lock()
	if m.ClickErr != nil {
		m.mu.Unlock()
		return m.ClickErr
	}
	p := screen.Point{X: x, Y: y}
	m.Pos = p
	m.clicks = append(m.clicks, p)
	hook := m.OnClick
	m.mu.Unlock()
	if hook != nil {
		hook(p)
	}
	return nil
}

func (m *Mouse) ClickCurrent() error {
	m.mu.Lock()
	p := m.Pos
	m.mu.Unlock()
	return m.Click(p.X, p.Y)
}

func (m *Mouse) Position() (x, y int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Pos.X, m.Pos.Y, nil
}

func (m *Mouse) Clicks() []screen.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]screen.Point(nil), m.clicks...)
}

// Locator answers Find from a table keyed by template path. The first path
// of a set present in Found wins.
type Locator struct {
	mu    sync.Mutex
	Found map[string]screen.Point
	Err   error
	calls []screen.TemplateSet
}

func (l *Locator) Find(set screen.TemplateSet) (screen.Match, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, set)
	if l.Err != nil {
		return screen.Match{}, false, l.Err
	}
	for _, path := range set.Paths {
		if p, ok := l.Found[path]; ok {
			return screen.Match{Point: p, Template: path, Scale: 1, Score: 1}, true, nil
		}
	}
	return screen.Match{}, false, nil
}

func (l *Locator) Calls() []screen.TemplateSet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]screen.TemplateSet(nil), l.calls...)
}

// Desktop bundles one of each fake, with the keyboard pasting from the
// clipboard. Screen is what Capture returns; a nil Screen fails the capture.
type Desktop struct {
	*Windows
	*Launcher
	*Mouse
	*Keyboard
	Clip     *Clipboard
	Loc      *Locator
	Screen   image.Image
	Bounds   screen.Rect
	Displays []screen.Monitor
}

func (d *Desktop) Capture() (image.Image, error) {
	if d.Screen == nil {
		return nil, ErrInjected
	}
	return d.Screen, nil
}

func (d *Desktop) VirtualBounds() screen.Rect { return d.Bounds }

func (d *Desktop) Monitors() ([]screen.Monitor, error) { return d.Displays, nil }

func NewDesktop(wins ...window.Info) *Desktop {
	clip := &Clipboard{}
	return &Desktop{
		Windows:  &Windows{List: wins},
		Launcher: &Launcher{},
		Mouse:    &Mouse{},
		Keyboard: &Keyboard{Clipboard: clip},
		Clip:     clip,
		Loc:      &Locator{Found: map[string]screen.Point{}},
	}
}
