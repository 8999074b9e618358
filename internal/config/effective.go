package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Tags != nil {
		cfg.Tags = append([]string(nil), raw.Tags...)
	}
	if raw.SloppyFocus != nil {
		cfg.SloppyFocus = *raw.SloppyFocus
	}
	if raw.BorderPx != nil {
		cfg.BorderPx = *raw.BorderPx
	}
	if raw.Colors != nil {
		if raw.Colors.Root != nil {
			cfg.Colors.Root = *raw.Colors.Root
		}
		if raw.Colors.Border != nil {
			cfg.Colors.Border = *raw.Colors.Border
		}
		if raw.Colors.Focus != nil {
			cfg.Colors.Focus = *raw.Colors.Focus
		}
	}
	if raw.Gaps != nil {
		cfg.Gaps.OuterH = derefInt(raw.Gaps.OuterH, cfg.Gaps.OuterH)
		cfg.Gaps.OuterV = derefInt(raw.Gaps.OuterV, cfg.Gaps.OuterV)
		cfg.Gaps.InnerH = derefInt(raw.Gaps.InnerH, cfg.Gaps.InnerH)
		cfg.Gaps.InnerV = derefInt(raw.Gaps.InnerV, cfg.Gaps.InnerV)
		cfg.Gaps.Smart = derefBool(raw.Gaps.Smart, cfg.Gaps.Smart)
		cfg.Gaps.Enabled = derefBool(raw.Gaps.Enabled, cfg.Gaps.Enabled)
	}
	if raw.Layouts != nil {
		cfg.Layouts = append(cfg.Layouts[:0:0], raw.Layouts...)
	}
	if raw.MonitorRules != nil {
		cfg.MonitorRules = make([]MonitorRule, 0, len(raw.MonitorRules))
		for _, r := range raw.MonitorRules {
			if r.MFact == 0 {
				r.MFact = 0.55
			}
			cfg.MonitorRules = append(cfg.MonitorRules, r)
		}
	}
	if raw.Rules != nil {
		cfg.Rules = make([]Rule, 0, len(raw.Rules))
		for _, r := range raw.Rules {
			cfg.Rules = append(cfg.Rules, Rule{
				AppID:    derefString(r.AppID, ""),
				Title:    derefString(r.Title, ""),
				Tags:     append([]int(nil), r.Tags...),
				Floating: derefBool(r.Floating, false),
				Monitor:  derefInt(r.Monitor, -1),
				X:        derefInt(r.X, 0),
				Y:        derefInt(r.Y, 0),
				Width:    derefInt(r.Width, 0),
				Height:   derefInt(r.Height, 0),
			})
		}
	}
	if raw.ModKey != nil {
		cfg.ModKey = *raw.ModKey
	}
	if raw.Keys != nil {
		cfg.Keys = append([]KeyBinding(nil), raw.Keys...)
	}
	if raw.ExtraKeys != nil {
		cfg.Keys = append(cfg.Keys, raw.ExtraKeys...)
	}
	if raw.Buttons != nil {
		cfg.Buttons = append([]ButtonBinding(nil), raw.Buttons...)
	}
	if raw.TagKeys != nil {
		tk := raw.TagKeys
		cfg.TagKeys.View = derefString(tk.View, cfg.TagKeys.View)
		cfg.TagKeys.ToggleView = derefString(tk.ToggleView, cfg.TagKeys.ToggleView)
		cfg.TagKeys.Tag = derefString(tk.Tag, cfg.TagKeys.Tag)
		cfg.TagKeys.ToggleTag = derefString(tk.ToggleTag, cfg.TagKeys.ToggleTag)
		if tk.Keys != nil {
			cfg.TagKeys.Keys = append([]string(nil), tk.Keys...)
		}
		if tk.ShiftKeys != nil {
			cfg.TagKeys.ShiftKeys = append([]string(nil), tk.ShiftKeys...)
		}
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.HTTPListen != nil {
		cfg.HTTPListen = strings.TrimSpace(*raw.HTTPListen)
	}
	if raw.WatchConfig != nil {
		cfg.WatchConfig = *raw.WatchConfig
	}

	return cfg, nil
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func derefBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func derefString(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
