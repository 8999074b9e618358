// Package mcp exposes the running window manager as MCP tools. It talks to
// the daemon over IPC, so it can run as a separate stdio process.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/ipc"
)

const (
	ServerName    = "tagtile"
	ServerVersion = "0.1.0"
)

// Daemon is the IPC surface the tools use. *ipc.Client implements it.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ListClients() (*ipc.ClientsData, error)
	Run(command string, arg any) error
	Reload() error
}

// Server is the MCP server for tagtile.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that forwards to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Show every monitor's selected tags, layout and client count, plus the focused client. Includes a one-line summary per monitor.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_clients",
		Description: "List managed windows in tiling order with their app id, title, monitor, tags, geometry and floating/fullscreen state.",
	}, s.handleListClients)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run a window manager command exactly as a key binding would, e.g. {\"command\":\"view\",\"arg\":[2]} or {\"command\":\"setlayout\",\"arg\":\"[M]\"}. Returns the status line afterwards.",
	}, s.handleRunCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Re-read the tagtile config file. Rules, bindings, layouts and gap defaults change; open windows stay.",
	}, s.handleReloadConfig)
}
