// Package input types text and key combinations into whatever control has
// keyboard focus.
//
// Text goes through the clipboard (save, write, Ctrl+V, restore) because
// pasting is the one path that reliably carries CJK text into the chat
// client. The previous clipboard contents are restored when they could be
// read. When writing the clipboard or pasting fails the text is injected
// directly as Unicode key events instead.
package input

import (
	"time"

	"github.com/rs/zerolog"

	groupsend "github.com/rpdg/groupsend"
	"github.com/rpdg/groupsend/internal/clock"
	"github.com/rpdg/groupsend/keyboard"
)

type Keyboard interface {
	Press(k keyboard.Key) error
	PressHotkey(keys ...keyboard.Key) error
	TypeUnicode(text string) error
}

type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type Driver struct {
	Keys      Keyboard
	Clipboard Clipboard
	Clock     clock.Clock
	// Settle is waited after each keystroke group.
	Settle time.Duration
	log    zerolog.Logger
}

func NewDriver(keys Keyboard, cb Clipboard, clk clock.Clock, settle time.Duration, log zerolog.Logger) *Driver {
	return &Driver{Keys: keys, Clipboard: cb, Clock: clk, Settle: settle, log: log}
}

// ClearField selects everything in the focused control and deletes it.
func (d *Driver) ClearField() error {
	const op = "input.ClearField"

	d.log.Debug().Msg("Selecting all text (Ctrl+A)")
	if err := d.Keys.PressHotkey(keyboard.KeyCtrl, keyboard.KeyA); err != nil {
		return groupsend.Wrap(err, groupsend.KindUnexpected, op, "select all failed")
	}
	d.Clock.Sleep(d.Settle)

	d.log.Debug().Msg("Deleting selection (Backspace)")
	if err := d.Keys.Press(keyboard.KeyBackspace); err != nil {
		return groupsend.Wrap(err, groupsend.KindUnexpected, op, "backspace failed")
	}
	d.Clock.Sleep(d.Settle)
	return nil
}

// TypeText enters text into the focused control.
func (d *Driver) TypeText(text string) error {
	const op = "input.TypeText"
	log := d.log.With().Int("length", len([]rune(text))).Logger()

	err := d.paste(text, log)
	if err == nil {
		return nil
	}
	log.Error().Err(err).Msg("Clipboard input failed, typing directly")

	if err2 := d.Keys.TypeUnicode(text); err2 != nil {
		log.Error().Err(err2).Msg("Direct input failed")
		return groupsend.Wrap(err2, groupsend.KindUnexpected, op, "clipboard and direct input both failed")
	}
	log.Debug().Msg("Text typed as unicode key events")
	return nil
}

func (d *Driver) paste(text string, log zerolog.Logger) error {
	// An empty clipboard or one holding an image reads as an error; there
	// is nothing to restore then, but pasting still works.
	previous, err := d.Clipboard.ReadAll()
	saved := err == nil
	if saved {
		log.Debug().Msg("Saved clipboard contents")
	} else {
		log.Warn().Err(err).Msg("Clipboard contents unavailable, not restoring them")
	}

	if err := d.Clipboard.WriteAll(text); err != nil {
		return err
	}
	d.Clock.Sleep(d.Settle)

	if err := d.Keys.PressHotkey(keyboard.KeyCtrl, keyboard.KeyV); err != nil {
		return err
	}
	log.Debug().Msg("Pasted text (Ctrl+V)")
	d.Clock.Sleep(d.Settle)

	if !saved {
		return nil
	}
	// The text is already in the field; typing it again would duplicate it.
	if err := d.Clipboard.WriteAll(previous); err != nil {
		log.Warn().Err(err).Msg("Failed to restore clipboard contents")
	}
	return nil
}

// Press taps a single key without waiting.
func (d *Driver) Press(k keyboard.Key) error {
	d.log.Debug().Stringer("key", k).Msg("Pressing key")
	if err := d.Keys.Press(k); err != nil {
		return groupsend.Wrap(err, groupsend.KindUnexpected, "input.Press", "press "+k.String()+" failed")
	}
	return nil
}
