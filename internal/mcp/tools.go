package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/wm"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	out := GetStatusOutput{
		StatusLine:    wm.FormatStatusLine(status.Snapshot),
		Monitors:      status.Monitors,
		Selected:      status.SelectedMonitor,
		Tags:          status.Tags,
		GapsEnabled:   status.GapsEnabled,
		UptimeSeconds: status.UptimeSeconds,
	}
	if c, ok := status.FocusedClient(); ok {
		out.Focused = &c
	}
	return nil, out, nil
}

func (s *Server) handleListClients(_ context.Context, _ *mcpsdk.CallToolRequest, args ListClientsInput) (*mcpsdk.CallToolResult, ListClientsOutput, error) {
	data, err := s.daemon.ListClients()
	if err != nil {
		return nil, ListClientsOutput{}, err
	}
	clients := make([]wm.ClientStatus, 0, len(data.Clients))
	for _, c := range data.Clients {
		if args.Monitor != "" && c.Monitor != args.Monitor {
			continue
		}
		if args.VisibleOnly && !c.Visible {
			continue
		}
		clients = append(clients, c)
	}
	return nil, ListClientsOutput{Clients: clients}, nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, RunCommandOutput, error) {
	if args.Command == "" {
		return nil, RunCommandOutput{}, fmt.Errorf("command is required")
	}
	if err := s.daemon.Run(args.Command, args.Arg); err != nil {
		return nil, RunCommandOutput{}, err
	}
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, RunCommandOutput{}, err
	}
	return nil, RunCommandOutput{StatusLine: wm.FormatStatusLine(status.Snapshot)}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: "Configuration reloaded"},
		},
	}, nil, nil
}
