package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/tagtile/internal/bindings"
	"github.com/1broseidon/tagtile/internal/layout"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.Tags) != 9 {
		t.Fatalf("expected 9 default tags, got %d", len(cfg.Tags))
	}
	if cfg.Layouts[0].Kind != layout.KindTile {
		t.Fatalf("expected tile to be the first layout")
	}
}

func TestDefaultBindings(t *testing.T) {
	table, err := DefaultConfig().Bindings()
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	got := table.MatchKeys(bindings.Mod4, "Return")
	if len(got) != 1 || got[0].Command != bindings.CmdSpawn || got[0].Arg.Argv[0] != DefaultTerminal {
		t.Fatalf("unexpected MOD-Return binding: %+v", got)
	}
	// Tag keys: view, toggleview, tag and toggletag for each of 9 tags.
	tagged := 0
	for _, k := range table.Keys {
		switch k.Command {
		case bindings.CmdView, bindings.CmdToggleView, bindings.CmdTag, bindings.CmdToggleTag:
			if k.Arg.Tags.Count() == 1 {
				tagged++
			}
		}
	}
	if tagged != 36 {
		t.Fatalf("expected 36 generated tag keys, got %d", tagged)
	}
	shifted := table.MatchKeys(bindings.Mod4|bindings.ModShift, "exclam")
	if len(shifted) != 1 || shifted[0].Command != bindings.CmdTag || shifted[0].Arg.Tags != 1 {
		t.Fatalf("unexpected MOD-Shift-exclam binding: %+v", shifted)
	}
	b, ok := table.MatchButton(bindings.Mod4, bindings.ButtonRight)
	if !ok || b.Command != bindings.CmdMoveResize || b.Arg.Mode != bindings.ModeResize {
		t.Fatalf("unexpected MOD-right binding: %+v", b)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.BorderPx != 1 || !res.Config.SloppyFocus {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_OverridesScalarsAndLists(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", strings.Join([]string{
		"border_px: 3",
		"sloppy_focus: false",
		"gaps:",
		"  inner_h: 4",
		"  enabled: false",
		"tags: [web, code, chat]",
		"rules:",
		"  - app_id: calculator",
		"    floating: true",
		"    width: 200",
		"    height: 400",
		"  - title: scratch",
		"    tags: [3]",
		"    monitor: 1",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.BorderPx != 3 || cfg.SloppyFocus {
		t.Fatalf("scalars not applied: border=%d sloppy=%v", cfg.BorderPx, cfg.SloppyFocus)
	}
	if cfg.Gaps.InnerH != 4 || cfg.Gaps.OuterH != 10 || cfg.Gaps.Enabled {
		t.Fatalf("unexpected gaps %+v", cfg.Gaps)
	}
	if len(cfg.Tags) != 3 {
		t.Fatalf("expected 3 tags, got %v", cfg.Tags)
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0].Monitor != -1 {
		t.Fatalf("expected unset monitor to default to -1, got %d", cfg.Rules[0].Monitor)
	}
	if cfg.Rules[1].Mask() != 1<<2 || cfg.Rules[1].Monitor != 1 {
		t.Fatalf("unexpected second rule %+v", cfg.Rules[1])
	}
}

func TestLoadFromPath_TooManyTags(t *testing.T) {
	var tags []string
	for i := 0; i < 32; i++ {
		tags = append(tags, "t")
	}
	path := writeConfig(t, t.TempDir(), "config.yaml", "tags: ["+strings.Join(tags, ", ")+"]\n")
	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "tags" {
		t.Fatalf("expected tags validation error, got %v", err)
	}
	if verr.Source.Line != 1 {
		t.Fatalf("expected source line 1, got %+v", verr.Source)
	}
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "border_pixels: 2\n")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected strict decoding to reject unknown field")
	}
}

func TestLoadFromPath_BadKeyReportsItemSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.Join([]string{
		"keys:",
		"  - key: MOD-Return",
		"    command: spawn",
		"    arg: alacritty",
		"  - key: MOD-x",
		"    command: chvt",
		"",
	}, "\n"))
	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Path != "keys[1].command" {
		t.Fatalf("unexpected path %q", verr.Path)
	}
	if verr.Source.Line != 6 {
		t.Fatalf("expected source line 6, got %+v", verr.Source)
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestLoadFromPath_UnknownMonitorLayout(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.Join([]string{
		"monitor_rules:",
		"  - name: eDP-1",
		"    mfact: 0.5",
		"    layout: spiral",
		"",
	}, "\n"))
	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "monitor_rules[0].layout" {
		t.Fatalf("expected monitor layout error, got %v", err)
	}
}

func TestLoadFromPath_IncludeMergesBeforeFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", "border_px: 5\nlog_level: debug\n")
	path := writeConfig(t, dir, "config.yaml", "include: base.yaml\nborder_px: 2\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.BorderPx != 2 {
		t.Fatalf("expected including file to win, got border_px=%d", res.Config.BorderPx)
	}
	if res.Config.LogLevel != "debug" {
		t.Fatalf("expected include to supply log_level, got %q", res.Config.LogLevel)
	}
	if len(res.Files) != 2 || filepath.Base(res.Files[0]) != "base.yaml" {
		t.Fatalf("unexpected load order %v", res.Files)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")
	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_ExtraKeysAppend(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.Join([]string{
		"extra_keys:",
		"  - key: MOD-b",
		"    command: spawn",
		"    arg: [firefox]",
		"",
	}, "\n"))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, want := len(res.Config.Keys), len(defaultKeys())+1; got != want {
		t.Fatalf("expected %d keys, got %d", want, got)
	}
}

func TestExplain(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "gaps:\n  inner_v: 7\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "gaps.inner_v")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 7 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result %v %+v", val, src)
	}

	val, src, err = Explain(res, "layouts[2].symbol")
	if err != nil {
		t.Fatalf("explain layouts: %v", err)
	}
	if val != "[M]" || src.Kind != SourceDefault {
		t.Fatalf("unexpected explain result %v %+v", val, src)
	}

	if _, _, err := Explain(res, "gaps.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff000080")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != (RGBA{R: 255, A: 128}) {
		t.Fatalf("unexpected color %+v", c)
	}
	if c.Pixel() != 0x80ff0000 {
		t.Fatalf("unexpected pixel %#x", c.Pixel())
	}
	if _, err := ParseColor("red"); err == nil {
		t.Fatalf("expected error for named color")
	}
}
