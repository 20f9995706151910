package groupsend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[CONFIG] config.Load: empty", NewError(KindConfig, "config.Load", "empty").Error())
	assert.Equal(t, "[TIMING] gave up", NewError(KindTiming, "", "gave up").Error())

	err := Wrap(errors.New("denied"), KindUnexpected, "input.TypeText", "paste failed")
	assert.Equal(t, "[UNEXPECTED] input.TypeText: paste failed: denied", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, KindConfig, "op", "msg"))
}

func TestErrorsIsMatchesKindThroughWrapping(t *testing.T) {
	cause := errors.New("no such file")
	err := fmt.Errorf("run: %w", Wrap(cause, KindResource, "appctl.Launch", "executable not found"))

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &Error{Kind: KindResource})
	assert.ErrorIs(t, err, &Error{Kind: KindResource, Op: "appctl.Launch"})
	assert.NotErrorIs(t, err, &Error{Kind: KindResource, Op: "config.Load"})
	assert.NotErrorIs(t, err, &Error{Kind: KindTiming})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain")))
	assert.Equal(t, KindTiming, KindOf(fmt.Errorf("x: %w", Errorf(KindTiming, "op", "after %d polls", 10))))
}
