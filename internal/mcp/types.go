package mcp

import "github.com/1broseidon/tagtile/internal/wm"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	StatusLine    string             `json:"status_line"`
	Monitors      []wm.MonitorStatus `json:"monitors"`
	Selected      string             `json:"selected_monitor"`
	Focused       *wm.ClientStatus   `json:"focused,omitempty"`
	Tags          []string           `json:"tags"`
	GapsEnabled   bool               `json:"gaps_enabled"`
	UptimeSeconds int64              `json:"uptime_seconds"`
}

// ListClientsInput is the input for the list_clients tool.
type ListClientsInput struct {
	Monitor     string `json:"monitor,omitempty" jsonschema:"Only list clients on this monitor (e.g. DP-1)"`
	VisibleOnly bool   `json:"visible_only,omitempty" jsonschema:"When true, list only clients on the monitor's visible tags"`
}

// ListClientsOutput is the output for the list_clients tool.
type ListClientsOutput struct {
	Clients []wm.ClientStatus `json:"clients"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string `json:"command" jsonschema:"required,Window manager command: view, toggleview, tag, toggletag, focusstack, incnmaster, setmfact, zoom, setlayout, togglefloating, togglefullscreen, focusmon, tagmon, killclient, shiftview, spawn, incrgaps, togglegaps, defaultgaps and the other gap commands"`
	Arg     any    `json:"arg,omitempty" jsonschema:"Command argument as in the config file: a tag list or \"all\" for view/tag, an integer for focusstack/shiftview/focusmon, a float for setmfact, a layout symbol for setlayout, an argv list for spawn"`
}

// RunCommandOutput is the output for the run_command tool.
type RunCommandOutput struct {
	StatusLine string `json:"status_line"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}
