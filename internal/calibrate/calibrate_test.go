package calibrate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpdg/groupsend/internal/clock"
	"github.com/rpdg/groupsend/internal/config"
	"github.com/rpdg/groupsend/internal/testutil"
	"github.com/rpdg/groupsend/screen"
)

func setup(t *testing.T, doc string) (*Calibrator, *testutil.Mouse, *clock.Fake, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if doc != "" {
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	}
	m := &testutil.Mouse{}
	clk := clock.NewFake(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	var out bytes.Buffer
	c := New(m, config.NewStore(path, zerolog.Nop()), clk, &out, zerolog.Nop())
	return c, m, clk, &out, path
}

func TestRunPersistsPointerPosition(t *testing.T) {
	c, m, clk, out, path := setup(t, "wechat_path: a.exe\ngroup_name: Test Group\nmessage: hi\n")
	m.Pos = screen.Point{X: 640, Y: 480}

	p, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, screen.Point{X: 640, Y: 480}, p)
	assert.Equal(t, Countdown, clk.Total())
	assert.Len(t, clk.Slept(), 5)

	cfg, err := config.NewStore(path, zerolog.Nop()).Load()
	require.NoError(t, err)
	got, ok := cfg.SearchBox()
	require.True(t, ok)
	assert.Equal(t, screen.Point{X: 640, Y: 480}, got)
	assert.Equal(t, "Test Group", cfg.GroupName)

	assert.Contains(t, out.String(), "5s...")
	assert.Contains(t, out.String(), "1s...")
	assert.Contains(t, out.String(), "(640, 480)")
	assert.Contains(t, out.String(), "Search box position saved")
}

func TestRunOverwritesPreviousCalibration(t *testing.T) {
	c, m, _, _, path := setup(t, "wechat_path: a.exe\nsearch_box_x: 1\nsearch_box_y: 2\n")
	m.Pos = screen.Point{X: -300, Y: 90}

	_, err := c.Run()
	require.NoError(t, err)

	cfg, err := config.NewStore(path, zerolog.Nop()).Load()
	require.NoError(t, err)
	got, _ := cfg.SearchBox()
	assert.Equal(t, screen.Point{X: -300, Y: 90}, got)
}

func TestRunWithoutConfigurationCreatesOne(t *testing.T) {
	c, m, _, _, path := setup(t, "")
	m.Pos = screen.Point{X: 10, Y: 20}

	_, err := c.Run()
	require.NoError(t, err)

	cfg, err := config.NewStore(path, zerolog.Nop()).Load()
	require.NoError(t, err)
	got, ok := cfg.SearchBox()
	require.True(t, ok)
	assert.Equal(t, screen.Point{X: 10, Y: 20}, got)
}

type failingStore struct{}

func (failingStore) Load() (*config.Config, error) { return nil, testutil.ErrInjected }
func (failingStore) Save(*config.Config) error     { return testutil.ErrInjected }

func TestRunSaveFailureIsReportedNotReturned(t *testing.T) {
	var out bytes.Buffer
	m := &testutil.Mouse{Pos: screen.Point{X: 5, Y: 6}}
	c := New(m, failingStore{}, clock.NewFake(time.Time{}), &out, zerolog.Nop())

	p, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, screen.Point{X: 5, Y: 6}, p)
	assert.Contains(t, out.String(), "Failed to save the search box position")
}
