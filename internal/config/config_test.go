package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"

	groupsend "github.com/rpdg/groupsend"
	"github.com/rpdg/groupsend/screen"
)

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func readDoc(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, yamlv3.Unmarshal(data, &m))
	return m
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeDoc(t, `
wechat_path: C:\Program Files\Tencent\WeChat\WeChat.exe
group_name: Test Group
message: Hello {date}
`)
	cfg, err := NewStore(path, zerolog.Nop()).Load()
	require.NoError(t, err)

	assert.Equal(t, `C:\Program Files\Tencent\WeChat\WeChat.exe`, cfg.AppPath)
	assert.Equal(t, "Test Group", cfg.GroupName)
	assert.Equal(t, "Hello {date}", cfg.Message)
	assert.False(t, cfg.AutoSend)
	assert.Equal(t, "微信", cfg.WindowTitle)
	assert.Equal(t, 2*time.Second, cfg.DelayShort)
	assert.Equal(t, 5*time.Second, cfg.DelayLong)
	assert.Equal(t, DefaultSearchTemplates, cfg.SearchTemplates)
	assert.Equal(t, DefaultGroupTemplates, cfg.GroupTemplates)
	assert.Equal(t, 0.7, cfg.SearchThreshold)
	assert.Equal(t, 0.5, cfg.GroupThreshold)

	_, ok := cfg.SearchBox()
	assert.False(t, ok)
}

func TestLoadAppPathWinsOverWechatPath(t *testing.T) {
	path := writeDoc(t, "wechat_path: old.exe\napp_path: new.exe\ngroup_name: g\nmessage: m\n")
	cfg, err := NewStore(path, zerolog.Nop()).Load()
	require.NoError(t, err)
	assert.Equal(t, "new.exe", cfg.AppPath)
}

func TestLoadTunables(t *testing.T) {
	path := writeDoc(t, `
app_path: a.exe
group_name: g
message: m
auto_send: true
search_box_x: 640
search_box_y: 480
window_title: WeChat
delay_short: 500ms
delay_long: 3
search_templates: [a.png, b.png]
group_threshold: 0.8
`)
	cfg, err := NewStore(path, zerolog.Nop()).Load()
	require.NoError(t, err)

	assert.True(t, cfg.AutoSend)
	p, ok := cfg.SearchBox()
	require.True(t, ok)
	assert.Equal(t, screen.Point{X: 640, Y: 480}, p)
	assert.Equal(t, "WeChat", cfg.WindowTitle)
	assert.Equal(t, 500*time.Millisecond, cfg.DelayShort)
	assert.Equal(t, 3*time.Second, cfg.DelayLong)
	assert.Equal(t, []string{"a.png", "b.png"}, cfg.SearchTemplates)
	assert.Equal(t, 0.8, cfg.GroupThreshold)
	assert.Equal(t, screen.TemplateSet{Paths: []string{"a.png", "b.png"}, Threshold: 0.7}, cfg.SearchSet())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeDoc(t, "wechat_path: a.exe\ngroup_name: g\nmessage: m\n")
	t.Setenv("GROUPSEND_GROUP_NAME", "Ops")
	t.Setenv("GROUPSEND_AUTO_SEND", "true")
	t.Setenv("GROUPSEND_GROUP_TEMPLATES", "x.png,y.png")
	t.Setenv("GROUPSEND_DELAY_LONG", "5")
	t.Setenv("GROUPSEND_DELAY_SHORT", "1500ms")

	cfg, err := NewStore(path, zerolog.Nop()).Load()
	require.NoError(t, err)
	assert.Equal(t, "Ops", cfg.GroupName)
	assert.True(t, cfg.AutoSend)
	assert.Equal(t, []string{"x.png", "y.png"}, cfg.GroupTemplates)
	assert.Equal(t, 5*time.Second, cfg.DelayLong)
	assert.Equal(t, 1500*time.Millisecond, cfg.DelayShort)
}

func TestLoadFractionalSecondsFromEnvironment(t *testing.T) {
	path := writeDoc(t, "wechat_path: a.exe\ngroup_name: g\nmessage: m\n")
	t.Setenv("GROUPSEND_DELAY_SHORT", "0.5")

	cfg, err := NewStore(path, zerolog.Nop()).Load()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.DelayShort)
}

func TestLoadErrorsAreConfigKind(t *testing.T) {
	cases := map[string]string{
		"missing": filepath.Join(t.TempDir(), "absent.yaml"),
		"invalid": writeDoc(t, "group_name: [unterminated\n"),
		"empty":   writeDoc(t, ""),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := NewStore(path, zerolog.Nop()).Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Equal(t, groupsend.KindConfig, groupsend.KindOf(err))
		})
	}
}

func TestLoadWarnsOnMissingKeys(t *testing.T) {
	var buf bytes.Buffer
	path := writeDoc(t, "group_name: g\n")

	_, err := NewStore(path, zerolog.New(&buf)).Load()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"key":"wechat_path"`)
	assert.Contains(t, buf.String(), `"key":"message"`)
	assert.NotContains(t, buf.String(), `"key":"group_name"`)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := writeDoc(t, `
app_path: a.exe
group_name: Test Group
message: Hello
message_file: msg.txt
delay_long: 7s
group_templates: [g.png]
`)
	store := NewStore(path, zerolog.Nop())
	cfg, err := store.Load()
	require.NoError(t, err)

	cfg.SetSearchBox(screen.Point{X: 12, Y: -40})
	cfg.SearchThreshold = 0.65
	require.NoError(t, store.Save(cfg))

	again, err := NewStore(path, zerolog.Nop()).Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestSavePreservesUnknownKeysAndPathKey(t *testing.T) {
	path := writeDoc(t, `
wechat_path: a.exe
group_name: g
message: m
note: keep me
extra:
  nested: 1
`)
	store := NewStore(path, zerolog.Nop())
	cfg, err := store.Load()
	require.NoError(t, err)

	cfg.SetSearchBox(screen.Point{X: 640, Y: 480})
	require.NoError(t, store.Save(cfg))

	doc := readDoc(t, path)
	assert.Equal(t, "keep me", doc["note"])
	assert.Equal(t, map[string]interface{}{"nested": 1}, doc["extra"])
	assert.Equal(t, "a.exe", doc["wechat_path"])
	assert.NotContains(t, doc, "app_path")
	assert.Equal(t, 640, doc["search_box_x"])
	assert.Equal(t, 480, doc["search_box_y"])
	assert.NotContains(t, doc, "window_title", "defaults are not written")
	assert.NotContains(t, doc, "delay_short")
}

func TestSaveWithoutLoadWritesMinimalDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.SetSearchBox(screen.Point{X: 1, Y: 2})

	require.NoError(t, NewStore(path, zerolog.Nop()).Save(cfg))

	doc := readDoc(t, path)
	assert.Equal(t, "", doc["wechat_path"])
	assert.Equal(t, 1, doc["search_box_x"])
	assert.Equal(t, 2, doc["search_box_y"])
	assert.Len(t, doc, 6)
}

func TestSaveFailureIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "config.yaml")
	err := NewStore(path, zerolog.Nop()).Save(Default())
	require.Error(t, err)
	assert.Equal(t, groupsend.KindConfig, groupsend.KindOf(err))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "custom.yaml", ResolvePath("custom.yaml"))

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.WriteFile("config.yaml", []byte("group_name: g\n"), 0644))
	assert.Equal(t, "config.yaml", ResolvePath(""))
}
