package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyString(t *testing.T) {
	assert.Equal(t, "ctrl", KeyCtrl.String())
	assert.Equal(t, "v", KeyV.String())
	assert.Equal(t, "7", Key7.String())
	assert.Equal(t, "f5", KeyF5.String())
	assert.Equal(t, "down", KeyArrowDown.String())
	assert.Equal(t, "vk(0xff)", Key(0xFF).String())
}

func TestParseRoundTrip(t *testing.T) {
	for _, k := range []Key{KeyCtrl, KeyEnter, KeyBackspace, KeyArrowDown, KeyA, KeyZ, Key0, KeyF1, KeyF12} {
		got, ok := Parse(k.String())
		assert.True(t, ok, "parse %q", k.String())
		assert.Equal(t, k, got)
	}
}

func TestParseAliasesAndRejects(t *testing.T) {
	k, ok := Parse(" Return ")
	assert.True(t, ok)
	assert.Equal(t, KeyEnter, k)

	k, ok = Parse("CONTROL")
	assert.True(t, ok)
	assert.Equal(t, KeyCtrl, k)

	for _, bad := range []string{"", "f13", "f0", "f5x", "hyper", "!"} {
		_, ok := Parse(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}

func TestExtended(t *testing.T) {
	assert.True(t, KeyArrowDown.Extended())
	assert.True(t, KeyDelete.Extended())
	assert.False(t, KeyEnter.Extended())
	assert.False(t, KeyV.Extended())
}

func TestCombo(t *testing.T) {
	assert.Equal(t, "ctrl+v", Combo(KeyCtrl, KeyV))
	assert.Equal(t, "", Combo())
}
