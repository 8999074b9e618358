package bindings

import (
	"fmt"
	"strconv"
	"strings"
)

// Pointer buttons, numbered as the core X protocol numbers them.
const (
	ButtonLeft   uint32 = 1
	ButtonMiddle uint32 = 2
	ButtonRight  uint32 = 3
)

// Key binds a modifier set and keysym name to a command.
type Key struct {
	Mods    Modifier
	Sym     string
	Command Command
	Arg     Arg
}

// Button binds a modifier set and pointer button to a command.
type Button struct {
	Mods    Modifier
	Button  uint32
	Command Command
	Arg     Arg
}

// Table is a compiled binding set.
type Table struct {
	Keys    []Key
	Buttons []Button
}

// MatchKeys returns every key binding for sym under mods, in table order.
func (t *Table) MatchKeys(mods Modifier, sym string) []Key {
	if t == nil {
		return nil
	}
	var out []Key
	for _, k := range t.Keys {
		if Clean(k.Mods) == Clean(mods) && k.Sym == sym {
			out = append(out, k)
		}
	}
	return out
}

// MatchButton returns the first button binding for button under mods.
func (t *Table) MatchButton(mods Modifier, button uint32) (Button, bool) {
	if t == nil {
		return Button{}, false
	}
	for _, b := range t.Buttons {
		if Clean(b.Mods) == Clean(mods) && b.Button == button {
			return b, true
		}
	}
	return Button{}, false
}

// ParseButton resolves "left", "middle", "right" or a button number.
func ParseButton(name string) (uint32, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left", "button1":
		return ButtonLeft, nil
	case "middle", "button2":
		return ButtonMiddle, nil
	case "right", "button3":
		return ButtonRight, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(name), 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("unknown button %q", name)
	}
	return uint32(n), nil
}

// TagKeys describes the generated per-tag bindings. Each modifier field is a
// "-" separated modifier list; an empty field disables that family.
type TagKeys struct {
	View       Modifier
	ToggleView Modifier
	Tag        Modifier
	ToggleTag  Modifier
	Keys       []string
	ShiftKeys  []string
}

// GenerateTagKeys returns view/toggleview bindings on Keys[i] and
// tag/toggletag bindings on ShiftKeys[i] for each of the first n tags.
// When ShiftKeys runs out, Keys is used for the shifted families too.
func GenerateTagKeys(n int, tk TagKeys) []Key {
	var out []Key
	for i := 0; i < n && i < len(tk.Keys); i++ {
		mask := Arg{Tags: 1 << uint(i), Layout: NoLayout}
		shifted := tk.Keys[i]
		if i < len(tk.ShiftKeys) && tk.ShiftKeys[i] != "" {
			shifted = tk.ShiftKeys[i]
		}
		families := []struct {
			mods Modifier
			sym  string
			cmd  Command
		}{
			{tk.View, tk.Keys[i], CmdView},
			{tk.ToggleView, tk.Keys[i], CmdToggleView},
			{tk.Tag, shifted, CmdTag},
			{tk.ToggleTag, shifted, CmdToggleTag},
		}
		for _, f := range families {
			if f.mods == 0 {
				continue
			}
			out = append(out, Key{Mods: f.mods, Sym: f.sym, Command: f.cmd, Arg: mask})
		}
	}
	return out
}
