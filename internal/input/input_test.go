package input

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	groupsend "github.com/rpdg/groupsend"
	"github.com/rpdg/groupsend/internal/clock"
	"github.com/rpdg/groupsend/internal/testutil"
	"github.com/rpdg/groupsend/keyboard"
)

const settle = 2 * time.Second

func newDriver(t *testing.T) (*Driver, *testutil.Keyboard, *testutil.Clipboard, *clock.Fake) {
	t.Helper()
	clip := &testutil.Clipboard{Text: "previous"}
	kb := &testutil.Keyboard{Clipboard: clip}
	clk := clock.NewFake(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	return NewDriver(kb, clip, clk, settle, zerolog.Nop()), kb, clip, clk
}

func TestClearField(t *testing.T) {
	d, kb, _, clk := newDriver(t)
	kb.SetText("old query")

	require.NoError(t, d.ClearField())
	assert.Equal(t, "", kb.Text())
	assert.Equal(t, []string{"ctrl+a", "backspace"}, kb.Events())
	assert.Equal(t, []time.Duration{settle, settle}, clk.Slept())
}

func TestClearFieldFailure(t *testing.T) {
	d, kb, _, _ := newDriver(t)
	kb.Fail = map[string]error{"ctrl+a": testutil.ErrInjected}

	err := d.ClearField()
	require.Error(t, err)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, groupsend.KindUnexpected, groupsend.KindOf(err))
	assert.Equal(t, []string{"ctrl+a"}, kb.Events())
}

func TestTypeTextPastesAndRestoresClipboard(t *testing.T) {
	d, kb, clip, clk := newDriver(t)

	require.NoError(t, d.TypeText("测试群"))
	assert.Equal(t, "测试群", kb.Text())
	assert.Equal(t, []string{"ctrl+v"}, kb.Events())
	assert.Equal(t, []string{"测试群", "previous"}, clip.Writes())
	assert.Equal(t, "previous", clip.Text)
	assert.Equal(t, []time.Duration{settle, settle}, clk.Slept())
}

func TestTypeTextPastesWhenClipboardUnreadable(t *testing.T) {
	d, kb, clip, clk := newDriver(t)
	var buf bytes.Buffer
	d.log = zerolog.New(&buf)
	clip.ReadErr = testutil.ErrInjected

	require.NoError(t, d.TypeText("测试群"))
	assert.Equal(t, "测试群", kb.Text())
	assert.Equal(t, []string{"ctrl+v"}, kb.Events())
	assert.Equal(t, []string{"测试群"}, clip.Writes(), "nothing to restore")
	assert.Equal(t, []time.Duration{settle, settle}, clk.Slept())
	assert.Contains(t, buf.String(), "Clipboard contents unavailable")
}

func TestTypeTextFallsBackWhenClipboardUnwritable(t *testing.T) {
	d, kb, clip, _ := newDriver(t)
	clip.WriteErr = func(string) error { return testutil.ErrInjected }

	require.NoError(t, d.TypeText("hello"))
	assert.Equal(t, "hello", kb.Text())
	assert.Equal(t, []string{"type"}, kb.Events())
}

func TestTypeTextFallsBackWhenPasteFails(t *testing.T) {
	d, kb, _, _ := newDriver(t)
	kb.Fail = map[string]error{"ctrl+v": testutil.ErrInjected}

	require.NoError(t, d.TypeText("hello"))
	assert.Equal(t, "hello", kb.Text())
	assert.Equal(t, []string{"ctrl+v", "type"}, kb.Events())
}

func TestTypeTextRestoreFailureIsOnlyLogged(t *testing.T) {
	d, kb, clip, _ := newDriver(t)
	var buf bytes.Buffer
	d.log = zerolog.New(&buf)
	clip.WriteErr = func(text string) error {
		if text == "previous" {
			return testutil.ErrInjected
		}
		return nil
	}

	require.NoError(t, d.TypeText("hello"))
	assert.Equal(t, "hello", kb.Text(), "text must not be typed twice")
	assert.Equal(t, []string{"ctrl+v"}, kb.Events())
	assert.Contains(t, buf.String(), "Failed to restore clipboard contents")
}

func TestTypeTextBothPathsFail(t *testing.T) {
	d, kb, clip, _ := newDriver(t)
	clip.WriteErr = func(string) error { return testutil.ErrInjected }
	kb.Fail = map[string]error{"type": testutil.ErrInjected}

	err := d.TypeText("hello")
	require.Error(t, err)
	assert.Equal(t, groupsend.KindUnexpected, groupsend.KindOf(err))
	assert.Equal(t, "", kb.Text())
}

func TestPress(t *testing.T) {
	d, kb, _, clk := newDriver(t)

	require.NoError(t, d.Press(keyboard.KeyEnter))
	assert.Equal(t, []string{"enter"}, kb.Events())
	assert.Empty(t, clk.Slept())

	kb.Fail = map[string]error{"down": testutil.ErrInjected}
	assert.ErrorIs(t, d.Press(keyboard.KeyArrowDown), testutil.ErrInjected)
}
