// Package bindings holds the key and button tables that map input to window
// manager commands.
package bindings

import (
	"fmt"
	"strings"
)

// Modifier is a keyboard modifier bitmask. The bit layout matches the core
// X protocol modifier masks.
type Modifier uint16

const (
	ModShift Modifier = 1 << iota
	ModLock
	ModControl
	Mod1
	Mod2
	Mod3
	Mod4
	Mod5
)

const (
	ModAlt  = Mod1
	ModLogo = Mod4
)

var modifierNames = map[string]Modifier{
	"shift":   ModShift,
	"lock":    ModLock,
	"caps":    ModLock,
	"control": ModControl,
	"ctrl":    ModControl,
	"mod1":    Mod1,
	"alt":     Mod1,
	"mod2":    Mod2,
	"mod3":    Mod3,
	"mod4":    Mod4,
	"super":   Mod4,
	"logo":    Mod4,
	"win":     Mod4,
	"mod5":    Mod5,
}

// Clean drops modifiers that never take part in binding matches (Caps Lock).
func Clean(m Modifier) Modifier {
	return m &^ ModLock
}

// ParseModifier resolves a single modifier name. "mod" resolves to modkey.
func ParseModifier(name string, modkey Modifier) (Modifier, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "mod" {
		if modkey == 0 {
			return 0, fmt.Errorf("MOD used but no modkey is configured")
		}
		return modkey, nil
	}
	m, ok := modifierNames[lower]
	if !ok {
		return 0, fmt.Errorf("unknown modifier %q", name)
	}
	return m, nil
}

// ParseMods parses a "-" separated modifier list such as "MOD-Shift".
// An empty string yields no modifiers.
func ParseMods(s string, modkey Modifier) (Modifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	var out Modifier
	for _, part := range strings.Split(s, "-") {
		m, err := ParseModifier(part, modkey)
		if err != nil {
			return 0, err
		}
		out |= m
	}
	return out, nil
}

// ParseCombo splits a combo such as "MOD-Shift-Return" into modifiers and
// the trailing key or button name.
func ParseCombo(s string, modkey Modifier) (Modifier, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", fmt.Errorf("empty key combo")
	}
	parts := strings.Split(s, "-")
	name := parts[len(parts)-1]
	if name == "" {
		// "MOD--" binds the minus character itself.
		if len(parts) >= 2 && parts[len(parts)-2] == "" {
			parts = parts[:len(parts)-1]
			name = "minus"
		} else {
			return 0, "", fmt.Errorf("key combo %q has no key", s)
		}
	}
	var mods Modifier
	for _, part := range parts[:len(parts)-1] {
		if part == "" {
			continue
		}
		m, err := ParseModifier(part, modkey)
		if err != nil {
			return 0, "", fmt.Errorf("key combo %q: %w", s, err)
		}
		mods |= m
	}
	return mods, name, nil
}

// String renders m in combo notation, e.g. "Mod4-Shift".
func (m Modifier) String() string {
	if m == 0 {
		return ""
	}
	ordered := []struct {
		bit  Modifier
		name string
	}{
		{Mod4, "Mod4"}, {Mod1, "Mod1"}, {ModControl, "Control"}, {ModShift, "Shift"},
		{ModLock, "Lock"}, {Mod2, "Mod2"}, {Mod3, "Mod3"}, {Mod5, "Mod5"},
	}
	parts := make([]string, 0, 4)
	for _, o := range ordered {
		if m&o.bit != 0 {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "-")
}
