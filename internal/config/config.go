// Package config loads and persists the YAML document that drives a run.
//
// Values are layered with koanf: built-in defaults, then the document on
// disk, then GROUPSEND_* environment variables. Saving writes the loaded
// document back with the edited fields, keeping keys this package does not
// know about.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	yamlv3 "gopkg.in/yaml.v3"

	groupsend "github.com/rpdg/groupsend"
	"github.com/rpdg/groupsend/screen"
)

const (
	DefaultFile      = "config.yaml"
	DefaultWindow    = "微信"
	DefaultShort     = 2 * time.Second
	DefaultLong      = 5 * time.Second
	DefaultSearchThr = 0.7
	DefaultGroupThr  = 0.5

	envPrefix = "GROUPSEND_"
	xdgFile   = "groupsend/config.yaml"
)

// Both keys name the application executable; app_path wins when both exist.
const (
	keyAppPath    = "app_path"
	keyWechatPath = "wechat_path"
)

var (
	DefaultSearchTemplates = []string{"png/search_icon_template.png", "png/search_icon_backup.png"}
	DefaultGroupTemplates  = []string{"png/group_result_template.png", "png/group_result_backup.png"}
)

type Config struct {
	AppPath     string `koanf:"-"`
	GroupName   string `koanf:"group_name"`
	Message     string `koanf:"message"`
	MessageFile string `koanf:"message_file"`
	AutoSend    bool   `koanf:"auto_send"`

	// Calibrated search box position; nil until calibration has run.
	SearchBoxX *int `koanf:"search_box_x"`
	SearchBoxY *int `koanf:"search_box_y"`

	WindowTitle     string        `koanf:"window_title"`
	DelayShort      time.Duration `koanf:"delay_short"`
	DelayLong       time.Duration `koanf:"delay_long"`
	SearchTemplates []string      `koanf:"search_templates"`
	GroupTemplates  []string      `koanf:"group_templates"`
	SearchThreshold float64       `koanf:"search_threshold"`
	GroupThreshold  float64       `koanf:"group_threshold"`
}

// Default returns the configuration used when a key is absent.
func Default() *Config {
	return &Config{
		WindowTitle:     DefaultWindow,
		DelayShort:      DefaultShort,
		DelayLong:       DefaultLong,
		SearchTemplates: append([]string(nil), DefaultSearchTemplates...),
		GroupTemplates:  append([]string(nil), DefaultGroupTemplates...),
		SearchThreshold: DefaultSearchThr,
		GroupThreshold:  DefaultGroupThr,
	}
}

// SearchBox returns the calibrated search box position.
func (c *Config) SearchBox() (screen.Point, bool) {
	if c.SearchBoxX == nil || c.SearchBoxY == nil {
		return screen.Point{}, false
	}
	return screen.Point{X: *c.SearchBoxX, Y: *c.SearchBoxY}, true
}

// SetSearchBox records a calibrated position.
func (c *Config) SetSearchBox(p screen.Point) {
	x, y := p.X, p.Y
	c.SearchBoxX, c.SearchBoxY = &x, &y
}

// SearchSet is the template set used to find the search box.
func (c *Config) SearchSet() screen.TemplateSet {
	return screen.TemplateSet{Paths: c.SearchTemplates, Threshold: c.SearchThreshold}
}

// GroupSet is the template set used to find the group result row.
func (c *Config) GroupSet() screen.TemplateSet {
	return screen.TemplateSet{Paths: c.GroupTemplates, Threshold: c.GroupThreshold}
}

// Store reads and writes one configuration document.
type Store struct {
	Path string
	log  zerolog.Logger

	// raw is the document as last loaded or saved, nested as on disk.
	raw     map[string]interface{}
	pathKey string
}

func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{Path: path, log: log}
}

// Load reads the document. A missing, unreadable, unparseable or empty
// document is a KindConfig error.
func (s *Store) Load() (*Config, error) {
	const op = "config.Load"

	doc := koanf.New(".")
	if err := doc.Load(file.Provider(s.Path), yaml.Parser()); err != nil {
		s.log.Error().Err(err).Str("path", s.Path).Msg("Failed to read configuration")
		return nil, groupsend.Wrap(err, groupsend.KindConfig, op, "cannot read "+s.Path)
	}
	if len(doc.Keys()) == 0 {
		s.log.Error().Str("path", s.Path).Msg("Configuration document is empty")
		return nil, groupsend.NewError(groupsend.KindConfig, op, s.Path+" is empty")
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, groupsend.Wrap(err, groupsend.KindConfig, op, "failed to load defaults")
	}
	if err := k.Load(confmap.Provider(doc.All(), "."), nil); err != nil {
		return nil, groupsend.Wrap(err, groupsend.KindConfig, op, "failed to merge document")
	}
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, groupsend.Wrap(err, groupsend.KindConfig, op, "failed to load environment")
	}

	cfg := &Config{}
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				secondsToDurationHookFunc(),
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		s.log.Error().Err(err).Str("path", s.Path).Msg("Failed to decode configuration")
		return nil, groupsend.Wrap(err, groupsend.KindConfig, op, "invalid configuration")
	}

	if k.Exists(keyAppPath) {
		cfg.AppPath = k.String(keyAppPath)
	} else {
		cfg.AppPath = k.String(keyWechatPath)
	}
	s.pathKey = keyWechatPath
	if doc.Exists(keyAppPath) {
		s.pathKey = keyAppPath
	}

	for _, missing := range missingKeys(doc) {
		s.log.Warn().Str("key", missing).Str("path", s.Path).Msg("Configuration key is missing")
	}

	s.raw = doc.Raw()
	s.log.Debug().
		Str("path", s.Path).
		Str("group", cfg.GroupName).
		Bool("autoSend", cfg.AutoSend).
		Msg("Configuration loaded")
	return cfg, nil
}

// Save writes cfg to the document, keeping unknown keys from the last Load.
// Built-in tunables are only written when they were in the document or
// differ from their defaults.
func (s *Store) Save(cfg *Config) error {
	const op = "config.Save"

	out := make(map[string]interface{}, len(s.raw)+8)
	for k, v := range s.raw {
		out[k] = v
	}

	pathKey := s.pathKey
	if pathKey == "" {
		pathKey = keyWechatPath
	}
	out[pathKey] = cfg.AppPath
	out["group_name"] = cfg.GroupName
	out["message"] = cfg.Message
	out["auto_send"] = cfg.AutoSend
	setOptional(out, "message_file", cfg.MessageFile, cfg.MessageFile != "")

	if p, ok := cfg.SearchBox(); ok {
		out["search_box_x"] = p.X
		out["search_box_y"] = p.Y
	} else {
		delete(out, "search_box_x")
		delete(out, "search_box_y")
	}

	def := Default()
	setOptional(out, "window_title", cfg.WindowTitle, cfg.WindowTitle != def.WindowTitle)
	setOptional(out, "delay_short", cfg.DelayShort.String(), cfg.DelayShort != def.DelayShort)
	setOptional(out, "delay_long", cfg.DelayLong.String(), cfg.DelayLong != def.DelayLong)
	setOptional(out, "search_templates", cfg.SearchTemplates, !reflect.DeepEqual(cfg.SearchTemplates, def.SearchTemplates))
	setOptional(out, "group_templates", cfg.GroupTemplates, !reflect.DeepEqual(cfg.GroupTemplates, def.GroupTemplates))
	setOptional(out, "search_threshold", cfg.SearchThreshold, cfg.SearchThreshold != def.SearchThreshold)
	setOptional(out, "group_threshold", cfg.GroupThreshold, cfg.GroupThreshold != def.GroupThreshold)

	data, err := yamlv3.Marshal(out)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode configuration")
		return groupsend.Wrap(err, groupsend.KindUnexpected, op, "cannot encode configuration")
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		s.log.Error().Err(err).Str("path", s.Path).Msg("Failed to write configuration")
		return groupsend.Wrap(err, groupsend.KindConfig, op, "cannot write "+s.Path)
	}

	s.raw = out
	s.pathKey = pathKey
	s.log.Info().Str("path", s.Path).Msg("Configuration saved")
	return nil
}

// setOptional writes key when it is already in the document or when write
// is true.
func setOptional(out map[string]interface{}, key string, v interface{}, write bool) {
	if _, present := out[key]; present || write {
		out[key] = v
	}
}

func defaultMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"auto_send":        false,
		"window_title":     d.WindowTitle,
		"delay_short":      d.DelayShort.String(),
		"delay_long":       d.DelayLong.String(),
		"search_templates": d.SearchTemplates,
		"group_templates":  d.GroupTemplates,
		"search_threshold": d.SearchThreshold,
		"group_threshold":  d.GroupThreshold,
	}
}

func missingKeys(doc *koanf.Koanf) []string {
	var missing []string
	if !doc.Exists(keyAppPath) && !doc.Exists(keyWechatPath) {
		missing = append(missing, keyWechatPath)
	}
	for _, key := range []string{"group_name", "message"} {
		if !doc.Exists(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// secondsToDurationHookFunc reads bare numbers as seconds, so "delay_long: 5"
// and GROUPSEND_DELAY_LONG=5 mean five seconds rather than five nanoseconds.
// Strings with a unit are left to StringToTimeDurationHookFunc.
func secondsToDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return time.Duration(f * float64(time.Second)), nil
			}
		}
		return data, nil
	}
}

// ResolvePath picks the configuration document: the explicit flag value,
// then ./config.yaml, then groupsend/config.yaml under the XDG config
// directories, falling back to ./config.yaml.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	if p, err := xdg.SearchConfigFile(xdgFile); err == nil {
		return p
	}
	return DefaultFile
}
