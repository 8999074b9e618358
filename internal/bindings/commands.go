package bindings

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// Command names a window manager action.
type Command string

const (
	CmdView             Command = "view"
	CmdToggleView       Command = "toggleview"
	CmdTag              Command = "tag"
	CmdToggleTag        Command = "toggletag"
	CmdFocusStack       Command = "focusstack"
	CmdIncNMaster       Command = "incnmaster"
	CmdSetMFact         Command = "setmfact"
	CmdZoom             Command = "zoom"
	CmdSetLayout        Command = "setlayout"
	CmdToggleFloating   Command = "togglefloating"
	CmdToggleFullscreen Command = "togglefullscreen"
	CmdMoveResize       Command = "moveresize"
	CmdFocusMon         Command = "focusmon"
	CmdTagMon           Command = "tagmon"
	CmdKillClient       Command = "killclient"
	CmdShiftView        Command = "shiftview"
	CmdSpawn            Command = "spawn"
	CmdQuit             Command = "quit"
	CmdIncrGaps         Command = "incrgaps"
	CmdIncrIGaps        Command = "incrigaps"
	CmdIncrOGaps        Command = "incrogaps"
	CmdIncrOHGaps       Command = "incrohgaps"
	CmdIncrOVGaps       Command = "incrovgaps"
	CmdIncrIHGaps       Command = "incrihgaps"
	CmdIncrIVGaps       Command = "incrivgaps"
	CmdToggleGaps       Command = "togglegaps"
	CmdDefaultGaps      Command = "defaultgaps"
)

type argKind int

const (
	argNone argKind = iota
	argTags
	argInt
	argFloat
	argLayout
	argArgv
	argMode
)

var commandArgs = map[Command]argKind{
	CmdView:             argTags,
	CmdToggleView:       argTags,
	CmdTag:              argTags,
	CmdToggleTag:        argTags,
	CmdFocusStack:       argInt,
	CmdIncNMaster:       argInt,
	CmdSetMFact:         argFloat,
	CmdZoom:             argNone,
	CmdSetLayout:        argLayout,
	CmdToggleFloating:   argNone,
	CmdToggleFullscreen: argNone,
	CmdMoveResize:       argMode,
	CmdFocusMon:         argInt,
	CmdTagMon:           argInt,
	CmdKillClient:       argNone,
	CmdShiftView:        argInt,
	CmdSpawn:            argArgv,
	CmdQuit:             argNone,
	CmdIncrGaps:         argInt,
	CmdIncrIGaps:        argInt,
	CmdIncrOGaps:        argInt,
	CmdIncrOHGaps:       argInt,
	CmdIncrOVGaps:       argInt,
	CmdIncrIHGaps:       argInt,
	CmdIncrIVGaps:       argInt,
	CmdToggleGaps:       argNone,
	CmdDefaultGaps:      argNone,
}

// Commands lists every known command name, sorted.
func Commands() []Command {
	out := make([]Command, 0, len(commandArgs))
	for c := range commandArgs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DecodeArg turns a command line argument into the loose form ParseArg
// takes. JSON values ("[1,3]", "0.05", "-1") decode as JSON; anything else,
// such as "[M]" or "all", stays a string. Empty means no argument.
func DecodeArg(text string) any {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v
	}
	return text
}

// ParseCommand validates a command name.
func ParseCommand(name string) (Command, error) {
	c := Command(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := commandArgs[c]; !ok {
		return "", fmt.Errorf("unknown command %q", name)
	}
	return c, nil
}

// Mode selects what a pointer grab does.
type Mode int

const (
	ModeNone Mode = iota
	ModeMove
	ModeResize
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	default:
		return "none"
	}
}

// NoLayout in Arg.Layout flips the monitor's layout slot instead of setting it.
const NoLayout = -1

// Arg is the decoded argument of a command. Only the field matching the
// command's argument kind is meaningful.
type Arg struct {
	I      int
	F      float64
	Tags   tagset.Mask
	Layout int
	Argv   []string
	Mode   Mode
}

// Env carries the configuration an argument is resolved against.
type Env struct {
	Tags    int
	Layouts []layout.Layout
}

// ParseArg decodes raw for cmd. raw comes from YAML, JSON or the command
// line, so numbers may arrive as int, float64 or numeric strings.
//
// Tag arguments accept nil (previous tagset), "all", a 1-based tag number or
// a list of tag numbers. Layout arguments accept nil, a symbol, a kind name
// or a 0-based index. Spawn accepts a shell command string or an argv list.
func ParseArg(cmd Command, raw any, env Env) (Arg, error) {
	kind, ok := commandArgs[cmd]
	if !ok {
		return Arg{}, fmt.Errorf("unknown command %q", cmd)
	}
	arg := Arg{Layout: NoLayout}
	switch kind {
	case argNone:
		if raw != nil {
			if s, ok := raw.(string); !ok || s != "" {
				return Arg{}, fmt.Errorf("%s takes no argument", cmd)
			}
		}
	case argInt:
		if raw == nil {
			return arg, nil
		}
		i, err := toInt(raw)
		if err != nil {
			return Arg{}, fmt.Errorf("%s: %w", cmd, err)
		}
		arg.I = i
	case argFloat:
		f, err := toFloat(raw)
		if err != nil {
			return Arg{}, fmt.Errorf("%s: %w", cmd, err)
		}
		arg.F = f
	case argTags:
		m, err := parseTags(raw, env.Tags)
		if err != nil {
			return Arg{}, fmt.Errorf("%s: %w", cmd, err)
		}
		arg.Tags = m
	case argLayout:
		idx, err := parseLayout(raw, env.Layouts)
		if err != nil {
			return Arg{}, fmt.Errorf("%s: %w", cmd, err)
		}
		arg.Layout = idx
	case argArgv:
		argv, err := parseArgv(raw)
		if err != nil {
			return Arg{}, fmt.Errorf("%s: %w", cmd, err)
		}
		arg.Argv = argv
	case argMode:
		s, _ := raw.(string)
		switch strings.ToLower(s) {
		case "move":
			arg.Mode = ModeMove
		case "resize":
			arg.Mode = ModeResize
		default:
			return Arg{}, fmt.Errorf("%s: argument must be move or resize", cmd)
		}
	}
	return arg, nil
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int(v), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
}

func parseTags(raw any, ntags int) (tagset.Mask, error) {
	if ntags <= 0 {
		ntags = tagset.MaxTags
	}
	one := func(v any) (tagset.Mask, error) {
		i, err := toInt(v)
		if err != nil {
			return 0, err
		}
		if i == 0 {
			return 0, nil
		}
		if i < 1 || i > ntags {
			return 0, fmt.Errorf("tag %d out of range 1..%d", i, ntags)
		}
		return tagset.Bit(i - 1), nil
	}
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "all", "~0":
			return tagset.All, nil
		case "", "previous":
			return 0, nil
		}
		var m tagset.Mask
		for _, part := range strings.Split(v, ",") {
			b, err := one(part)
			if err != nil {
				return 0, err
			}
			m |= b
		}
		return m, nil
	case []any:
		var m tagset.Mask
		for _, item := range v {
			b, err := one(item)
			if err != nil {
				return 0, err
			}
			m |= b
		}
		return m, nil
	case []int:
		var m tagset.Mask
		for _, item := range v {
			b, err := one(item)
			if err != nil {
				return 0, err
			}
			m |= b
		}
		return m, nil
	default:
		return one(raw)
	}
}

func parseLayout(raw any, layouts []layout.Layout) (int, error) {
	switch v := raw.(type) {
	case nil:
		return NoLayout, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return NoLayout, nil
		}
		for i, l := range layouts {
			if l.Symbol == s {
				return i, nil
			}
		}
		for i, l := range layouts {
			if string(l.Kind) == strings.ToLower(s) {
				return i, nil
			}
		}
		if i, err := strconv.Atoi(s); err == nil {
			return checkLayoutIndex(i, layouts)
		}
		return 0, fmt.Errorf("unknown layout %q", v)
	default:
		i, err := toInt(raw)
		if err != nil {
			return 0, err
		}
		return checkLayoutIndex(i, layouts)
	}
}

func checkLayoutIndex(i int, layouts []layout.Layout) (int, error) {
	if i < 0 || i >= len(layouts) {
		return 0, fmt.Errorf("layout index %d out of range", i)
	}
	return i, nil
}

func parseArgv(raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("command must not be empty")
		}
		return []string{"/bin/sh", "-c", v}, nil
	case []string:
		if len(v) == 0 {
			return nil, fmt.Errorf("command must not be empty")
		}
		return append([]string(nil), v...), nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("command must not be empty")
		}
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("argv entries must be strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a command string or argv list, got %T", raw)
	}
}
