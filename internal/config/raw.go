package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagtile/internal/layout"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawColors struct {
	Root   *string `yaml:"root"`
	Border *string `yaml:"border"`
	Focus  *string `yaml:"focus"`
}

type RawGaps struct {
	OuterH  *int  `yaml:"outer_h"`
	OuterV  *int  `yaml:"outer_v"`
	InnerH  *int  `yaml:"inner_h"`
	InnerV  *int  `yaml:"inner_v"`
	Smart   *bool `yaml:"smart"`
	Enabled *bool `yaml:"enabled"`
}

type RawRule struct {
	AppID    *string `yaml:"app_id"`
	Title    *string `yaml:"title"`
	Tags     []int   `yaml:"tags"`
	Floating *bool   `yaml:"floating"`
	Monitor  *int    `yaml:"monitor"`
	X        *int    `yaml:"x"`
	Y        *int    `yaml:"y"`
	Width    *int    `yaml:"width"`
	Height   *int    `yaml:"height"`
}

type RawTagKeys struct {
	View       *string  `yaml:"view"`
	ToggleView *string  `yaml:"toggleview"`
	Tag        *string  `yaml:"tag"`
	ToggleTag  *string  `yaml:"toggletag"`
	Keys       []string `yaml:"keys"`
	ShiftKeys  []string `yaml:"shift_keys"`
}

// RawConfig is one YAML file before defaults are applied. Scalars are
// pointers so an overlay can tell "unset" from "zero"; lists replace the
// base list wholesale.
type RawConfig struct {
	Include      IncludeList     `yaml:"include"`
	Tags         []string        `yaml:"tags"`
	SloppyFocus  *bool           `yaml:"sloppy_focus"`
	BorderPx     *int            `yaml:"border_px"`
	Colors       *RawColors      `yaml:"colors"`
	Gaps         *RawGaps        `yaml:"gaps"`
	Layouts      []layout.Layout `yaml:"layouts"`
	MonitorRules []MonitorRule   `yaml:"monitor_rules"`
	Rules        []RawRule       `yaml:"rules"`
	ModKey       *string         `yaml:"modkey"`
	Keys         []KeyBinding    `yaml:"keys"`
	ExtraKeys    []KeyBinding    `yaml:"extra_keys"`
	Buttons      []ButtonBinding `yaml:"buttons"`
	TagKeys      *RawTagKeys     `yaml:"tag_keys"`
	LogLevel     *string         `yaml:"log_level"`
	HTTPListen   *string         `yaml:"http_listen"`
	WatchConfig  *bool           `yaml:"watch_config"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Tags != nil {
		out.Tags = overlay.Tags
	}
	if overlay.SloppyFocus != nil {
		out.SloppyFocus = overlay.SloppyFocus
	}
	if overlay.BorderPx != nil {
		out.BorderPx = overlay.BorderPx
	}
	if overlay.Colors != nil {
		if out.Colors == nil {
			out.Colors = &RawColors{}
		}
		merged := *out.Colors
		if overlay.Colors.Root != nil {
			merged.Root = overlay.Colors.Root
		}
		if overlay.Colors.Border != nil {
			merged.Border = overlay.Colors.Border
		}
		if overlay.Colors.Focus != nil {
			merged.Focus = overlay.Colors.Focus
		}
		out.Colors = &merged
	}
	if overlay.Gaps != nil {
		if out.Gaps == nil {
			out.Gaps = &RawGaps{}
		}
		merged := mergeRawGaps(*out.Gaps, *overlay.Gaps)
		out.Gaps = &merged
	}
	if overlay.Layouts != nil {
		out.Layouts = overlay.Layouts
	}
	if overlay.MonitorRules != nil {
		out.MonitorRules = overlay.MonitorRules
	}
	if overlay.Rules != nil {
		out.Rules = overlay.Rules
	}
	if overlay.ModKey != nil {
		out.ModKey = overlay.ModKey
	}
	if overlay.Keys != nil {
		out.Keys = overlay.Keys
	}
	if overlay.ExtraKeys != nil {
		out.ExtraKeys = append(append([]KeyBinding(nil), out.ExtraKeys...), overlay.ExtraKeys...)
	}
	if overlay.Buttons != nil {
		out.Buttons = overlay.Buttons
	}
	if overlay.TagKeys != nil {
		if out.TagKeys == nil {
			out.TagKeys = &RawTagKeys{}
		}
		merged := mergeRawTagKeys(*out.TagKeys, *overlay.TagKeys)
		out.TagKeys = &merged
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.HTTPListen != nil {
		out.HTTPListen = overlay.HTTPListen
	}
	if overlay.WatchConfig != nil {
		out.WatchConfig = overlay.WatchConfig
	}

	return out
}

func mergeRawGaps(base RawGaps, overlay RawGaps) RawGaps {
	out := base
	if overlay.OuterH != nil {
		out.OuterH = overlay.OuterH
	}
	if overlay.OuterV != nil {
		out.OuterV = overlay.OuterV
	}
	if overlay.InnerH != nil {
		out.InnerH = overlay.InnerH
	}
	if overlay.InnerV != nil {
		out.InnerV = overlay.InnerV
	}
	if overlay.Smart != nil {
		out.Smart = overlay.Smart
	}
	if overlay.Enabled != nil {
		out.Enabled = overlay.Enabled
	}
	return out
}

func mergeRawTagKeys(base RawTagKeys, overlay RawTagKeys) RawTagKeys {
	out := base
	if overlay.View != nil {
		out.View = overlay.View
	}
	if overlay.ToggleView != nil {
		out.ToggleView = overlay.ToggleView
	}
	if overlay.Tag != nil {
		out.Tag = overlay.Tag
	}
	if overlay.ToggleTag != nil {
		out.ToggleTag = overlay.ToggleTag
	}
	if overlay.Keys != nil {
		out.Keys = overlay.Keys
	}
	if overlay.ShiftKeys != nil {
		out.ShiftKeys = overlay.ShiftKeys
	}
	return out
}
