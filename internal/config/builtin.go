package config

import "github.com/1broseidon/tagtile/internal/layout"

// BuiltinLayouts returns the built-in layout table. The order matters: key
// bindings and monitor rules may refer to layouts by index.
func BuiltinLayouts() []layout.Layout {
	return []layout.Layout{
		{Symbol: "[]=", Kind: layout.KindTile},
		{Symbol: "><>", Kind: layout.KindFloating},
		{Symbol: "[M]", Kind: layout.KindMonocle},
	}
}

func defaultMonitorRules() []MonitorRule {
	return []MonitorRule{
		{Name: "DP-1", MFact: 0.55, NMaster: 1, Layout: "[]="},
		{Name: "HDMI-A-1", MFact: 0.55, NMaster: 1, Layout: "[]="},
	}
}

// DefaultTerminal is spawned by MOD-Return.
const DefaultTerminal = "alacritty"

func defaultKeys() []KeyBinding {
	return []KeyBinding{
		{Key: "MOD-Return", Command: "spawn", Arg: []string{DefaultTerminal}},
		{Key: "MOD-p", Command: "spawn", Arg: []string{"dmenu_run"}},
		{Key: "MOD-Shift-p", Command: "spawn", Arg: []string{"tagtile", "menu"}},
		{Key: "MOD-j", Command: "focusstack", Arg: 1},
		{Key: "MOD-k", Command: "focusstack", Arg: -1},
		{Key: "MOD-u", Command: "incnmaster", Arg: 1},
		{Key: "MOD-d", Command: "incnmaster", Arg: -1},
		{Key: "MOD-h", Command: "setmfact", Arg: -0.05},
		{Key: "MOD-l", Command: "setmfact", Arg: 0.05},
		{Key: "MOD-BackSpace", Command: "zoom"},
		{Key: "MOD-Tab", Command: "view"},
		{Key: "MOD-q", Command: "killclient"},
		{Key: "MOD-t", Command: "setlayout", Arg: "[]="},
		{Key: "MOD-f", Command: "setlayout", Arg: "><>"},
		{Key: "MOD-m", Command: "setlayout", Arg: "[M]"},
		{Key: "MOD-space", Command: "setlayout"},
		{Key: "MOD-Shift-space", Command: "togglefloating"},
		{Key: "MOD-e", Command: "togglefullscreen"},
		{Key: "MOD-0", Command: "view", Arg: "all"},
		{Key: "MOD-s", Command: "tag", Arg: "all"},
		{Key: "MOD-comma", Command: "focusmon", Arg: -1},
		{Key: "MOD-period", Command: "focusmon", Arg: 1},
		{Key: "MOD-plus", Command: "tagmon", Arg: -1},
		{Key: "MOD-minus", Command: "tagmon", Arg: 1},
		{Key: "MOD-Right", Command: "shiftview", Arg: 1},
		{Key: "MOD-Left", Command: "shiftview", Arg: -1},
		{Key: "MOD-Mod1-h", Command: "incrgaps", Arg: 1},
		{Key: "MOD-Mod1-l", Command: "incrgaps", Arg: -1},
		{Key: "MOD-Mod1-Shift-h", Command: "incrogaps", Arg: 1},
		{Key: "MOD-Mod1-Shift-l", Command: "incrogaps", Arg: -1},
		{Key: "MOD-Mod1-Control-h", Command: "incrigaps", Arg: 1},
		{Key: "MOD-Mod1-Control-l", Command: "incrigaps", Arg: -1},
		{Key: "MOD-y", Command: "incrihgaps", Arg: 1},
		{Key: "MOD-o", Command: "incrihgaps", Arg: -1},
		{Key: "MOD-Control-y", Command: "incrivgaps", Arg: 1},
		{Key: "MOD-Control-o", Command: "incrivgaps", Arg: -1},
		{Key: "MOD-Mod1-y", Command: "incrohgaps", Arg: 1},
		{Key: "MOD-Mod1-o", Command: "incrohgaps", Arg: -1},
		{Key: "MOD-Shift-y", Command: "incrovgaps", Arg: 1},
		{Key: "MOD-Shift-o", Command: "incrovgaps", Arg: -1},
		{Key: "MOD-Mod1-0", Command: "togglegaps"},
		{Key: "MOD-Mod1-Shift-parenright", Command: "defaultgaps"},
		{Key: "MOD-Shift-Q", Command: "quit"},
	}
}

func defaultButtons() []ButtonBinding {
	return []ButtonBinding{
		{Button: "MOD-left", Command: "moveresize", Arg: "move"},
		{Button: "MOD-middle", Command: "togglefloating"},
		{Button: "MOD-right", Command: "moveresize", Arg: "resize"},
	}
}

func defaultTagKeys() TagKeyConfig {
	return TagKeyConfig{
		View:       "MOD",
		ToggleView: "MOD-Control",
		Tag:        "MOD-Shift",
		ToggleTag:  "MOD-Control-Shift",
		Keys:       []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		// Shifted keysyms of the US layout.
		ShiftKeys: []string{"exclam", "at", "numbersign", "dollar", "percent", "asciicircum", "ampersand", "asterisk", "parenleft"},
	}
}
