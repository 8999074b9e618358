package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagtile/internal/bindings"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// Colors are "#rrggbb" or "#rrggbbaa" strings.
type Colors struct {
	Root   string `yaml:"root"`
	Border string `yaml:"border"`
	Focus  string `yaml:"focus"`
}

// GapConfig is the default gap set copied into every new monitor.
type GapConfig struct {
	OuterH  int  `yaml:"outer_h"`
	OuterV  int  `yaml:"outer_v"`
	InnerH  int  `yaml:"inner_h"`
	InnerV  int  `yaml:"inner_v"`
	Smart   bool `yaml:"smart"`
	Enabled bool `yaml:"enabled"`
}

// Gaps returns the per-monitor gap values.
func (g GapConfig) Gaps() layout.Gaps {
	return layout.Gaps{OuterH: g.OuterH, OuterV: g.OuterV, InnerH: g.InnerH, InnerV: g.InnerV}
}

// MonitorRule seeds mfact, nmaster and the layout of outputs whose name
// contains Name. The index of the first matching rule orders outputs left to
// right.
type MonitorRule struct {
	Name    string  `yaml:"name"`
	MFact   float64 `yaml:"mfact"`
	NMaster int     `yaml:"nmaster"`
	Layout  string  `yaml:"layout"`
}

// Rule matches new clients by substring of app id and title. Empty fields
// match anything. X, Y, Width and Height only apply to floating clients;
// zero means centered or natural size.
type Rule struct {
	AppID    string `yaml:"app_id"`
	Title    string `yaml:"title"`
	Tags     []int  `yaml:"tags"`
	Floating bool   `yaml:"floating"`
	Monitor  int    `yaml:"monitor"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
}

// Mask converts the 1-based tag list into a tag mask.
func (r Rule) Mask() tagset.Mask {
	var m tagset.Mask
	for _, t := range r.Tags {
		if t >= 1 && t <= tagset.MaxTags {
			m |= tagset.Bit(t - 1)
		}
	}
	return m
}

// KeyBinding is a key combo ("MOD-Shift-Return") bound to a command.
type KeyBinding struct {
	Key     string `yaml:"key"`
	Command string `yaml:"command"`
	Arg     any    `yaml:"arg,omitempty"`
}

// ButtonBinding is a button combo ("MOD-left") bound to a command.
type ButtonBinding struct {
	Button  string `yaml:"button"`
	Command string `yaml:"command"`
	Arg     any    `yaml:"arg,omitempty"`
}

// TagKeyConfig generates view/toggleview/tag/toggletag bindings per tag.
type TagKeyConfig struct {
	View       string   `yaml:"view"`
	ToggleView string   `yaml:"toggleview"`
	Tag        string   `yaml:"tag"`
	ToggleTag  string   `yaml:"toggletag"`
	Keys       []string `yaml:"keys"`
	ShiftKeys  []string `yaml:"shift_keys"`
}

// Config is the effective tagtile configuration.
type Config struct {
	Tags         []string        `yaml:"tags"`
	SloppyFocus  bool            `yaml:"sloppy_focus"`
	BorderPx     int             `yaml:"border_px"`
	Colors       Colors          `yaml:"colors"`
	Gaps         GapConfig       `yaml:"gaps"`
	Layouts      []layout.Layout `yaml:"layouts"`
	MonitorRules []MonitorRule   `yaml:"monitor_rules"`
	Rules        []Rule          `yaml:"rules"`
	ModKey       string          `yaml:"modkey"`
	Keys         []KeyBinding    `yaml:"keys"`
	Buttons      []ButtonBinding `yaml:"buttons"`
	TagKeys      TagKeyConfig    `yaml:"tag_keys"`
	LogLevel     string          `yaml:"log_level"`
	HTTPListen   string          `yaml:"http_listen"`
	WatchConfig  bool            `yaml:"watch_config"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Tags:        []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		SloppyFocus: true,
		BorderPx:    1,
		Colors: Colors{
			Root:   "#4d4d4d",
			Border: "#808080",
			Focus:  "#ff0000",
		},
		Gaps: GapConfig{
			OuterH:  10,
			OuterV:  10,
			InnerH:  10,
			InnerV:  10,
			Smart:   true,
			Enabled: true,
		},
		Layouts:      BuiltinLayouts(),
		MonitorRules: defaultMonitorRules(),
		ModKey:       "Mod4",
		Keys:         defaultKeys(),
		Buttons:      defaultButtons(),
		TagKeys:      defaultTagKeys(),
		LogLevel:     "info",
		WatchConfig:  true,
	}
}

// ModMask resolves the configured modkey.
func (c *Config) ModMask() (bindings.Modifier, error) {
	return bindings.ParseModifier(c.ModKey, 0)
}

// ArgEnv is the environment command arguments are resolved against.
func (c *Config) ArgEnv() bindings.Env {
	return bindings.Env{Tags: len(c.Tags), Layouts: c.Layouts}
}

// LayoutIndex finds a layout by symbol or kind name.
func (c *Config) LayoutIndex(name string) (int, bool) {
	for i, l := range c.Layouts {
		if l.Symbol == name {
			return i, true
		}
	}
	for i, l := range c.Layouts {
		if string(l.Kind) == name {
			return i, true
		}
	}
	return 0, false
}

// MonitorLayout returns the layout index a monitor rule selects, defaulting
// to the first layout.
func (c *Config) MonitorLayout(r MonitorRule) int {
	if i, ok := c.LayoutIndex(r.Layout); ok {
		return i
	}
	return 0
}

// Bindings compiles the key, tag key and button tables.
func (c *Config) Bindings() (*bindings.Table, error) {
	modkey, err := c.ModMask()
	if err != nil {
		return nil, &ValidationError{Path: "modkey", Err: err}
	}
	env := c.ArgEnv()
	table := &bindings.Table{}

	for i, kb := range c.Keys {
		path := "keys[" + strconv.Itoa(i) + "]"
		mods, sym, err := bindings.ParseCombo(kb.Key, modkey)
		if err != nil {
			return nil, &ValidationError{Path: path + ".key", Err: err}
		}
		cmd, err := bindings.ParseCommand(kb.Command)
		if err != nil {
			return nil, &ValidationError{Path: path + ".command", Err: err}
		}
		arg, err := bindings.ParseArg(cmd, kb.Arg, env)
		if err != nil {
			return nil, &ValidationError{Path: path + ".arg", Err: err}
		}
		table.Keys = append(table.Keys, bindings.Key{Mods: mods, Sym: sym, Command: cmd, Arg: arg})
	}

	tk := bindings.TagKeys{Keys: c.TagKeys.Keys, ShiftKeys: c.TagKeys.ShiftKeys}
	families := []struct {
		path string
		src  string
		dst  *bindings.Modifier
	}{
		{"tag_keys.view", c.TagKeys.View, &tk.View},
		{"tag_keys.toggleview", c.TagKeys.ToggleView, &tk.ToggleView},
		{"tag_keys.tag", c.TagKeys.Tag, &tk.Tag},
		{"tag_keys.toggletag", c.TagKeys.ToggleTag, &tk.ToggleTag},
	}
	for _, f := range families {
		mods, err := bindings.ParseMods(f.src, modkey)
		if err != nil {
			return nil, &ValidationError{Path: f.path, Err: err}
		}
		*f.dst = mods
	}
	table.Keys = append(table.Keys, bindings.GenerateTagKeys(len(c.Tags), tk)...)

	for i, bb := range c.Buttons {
		path := "buttons[" + strconv.Itoa(i) + "]"
		mods, name, err := bindings.ParseCombo(bb.Button, modkey)
		if err != nil {
			return nil, &ValidationError{Path: path + ".button", Err: err}
		}
		button, err := bindings.ParseButton(name)
		if err != nil {
			return nil, &ValidationError{Path: path + ".button", Err: err}
		}
		cmd, err := bindings.ParseCommand(bb.Command)
		if err != nil {
			return nil, &ValidationError{Path: path + ".command", Err: err}
		}
		arg, err := bindings.ParseArg(cmd, bb.Arg, env)
		if err != nil {
			return nil, &ValidationError{Path: path + ".arg", Err: err}
		}
		table.Buttons = append(table.Buttons, bindings.Button{Mods: mods, Button: button, Command: cmd, Arg: arg})
	}
	return table, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if err := tagset.Validate(len(c.Tags)); err != nil {
		return &ValidationError{Path: "tags", Err: err}
	}
	if c.BorderPx < 0 {
		return &ValidationError{Path: "border_px", Err: fmt.Errorf("border_px must be >= 0")}
	}
	for name, value := range map[string]string{
		"colors.root":   c.Colors.Root,
		"colors.border": c.Colors.Border,
		"colors.focus":  c.Colors.Focus,
	} {
		if _, err := ParseColor(value); err != nil {
			return &ValidationError{Path: name, Err: err}
		}
	}
	if c.Gaps.OuterH < 0 || c.Gaps.OuterV < 0 || c.Gaps.InnerH < 0 || c.Gaps.InnerV < 0 {
		return &ValidationError{Path: "gaps", Err: fmt.Errorf("gap values must be >= 0")}
	}
	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	for i, l := range c.Layouts {
		if _, err := layout.ParseKind(string(l.Kind)); err != nil {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d].kind", i), Err: err}
		}
		if strings.TrimSpace(l.Symbol) == "" {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d].symbol", i), Err: fmt.Errorf("symbol is required")}
		}
	}
	for i, r := range c.MonitorRules {
		path := fmt.Sprintf("monitor_rules[%d]", i)
		if r.MFact < 0.1 || r.MFact > 0.9 {
			return &ValidationError{Path: path + ".mfact", Err: fmt.Errorf("mfact must be within [0.1, 0.9]")}
		}
		if r.NMaster < 0 {
			return &ValidationError{Path: path + ".nmaster", Err: fmt.Errorf("nmaster must be >= 0")}
		}
		if r.Layout != "" {
			if _, ok := c.LayoutIndex(r.Layout); !ok {
				return &ValidationError{Path: path + ".layout", Err: fmt.Errorf("layout %q not found in layouts", r.Layout)}
			}
		}
	}
	for i, r := range c.Rules {
		path := fmt.Sprintf("rules[%d]", i)
		for _, t := range r.Tags {
			if t < 1 || t > len(c.Tags) {
				return &ValidationError{Path: path + ".tags", Err: fmt.Errorf("tag %d out of range 1..%d", t, len(c.Tags))}
			}
		}
		if r.Width < 0 || r.Height < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width and height must be >= 0")}
		}
	}
	if _, err := c.Bindings(); err != nil {
		return err
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string
	if len(c.TagKeys.Keys) < len(c.Tags) {
		warnings = append(warnings, fmt.Sprintf("tag_keys.keys has %d entries for %d tags; the remaining tags have no key bindings", len(c.TagKeys.Keys), len(c.Tags)))
	}
	seen := make(map[string]int)
	for i, r := range c.MonitorRules {
		if prev, ok := seen[r.Name]; ok {
			warnings = append(warnings, fmt.Sprintf("monitor_rules[%d] repeats name %q from monitor_rules[%d]; it never matches", i, r.Name, prev))
			continue
		}
		seen[r.Name] = i
	}
	return warnings
}

// RGBA is a color with 8-bit channels.
type RGBA struct {
	R, G, B, A uint8
}

// Pixel packs the color as 0xAARRGGBB.
func (c RGBA) Pixel() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return RGBA{}, fmt.Errorf("color %q must be #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
