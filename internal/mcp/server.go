package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/taskstrip/internal/ipc"
)

const (
	ServerName    = "taskstrip"
	ServerVersion = "0.1.0"
)

// Daemon is the slice of the IPC client the tools call.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Enable() (*ipc.StatusData, error)
	Disable() (*ipc.StatusData, error)
	Reconcile() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
}

// Server exposes the running taskstrip daemon as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a new MCP server that talks to the daemon through d.
// A nil d uses the default IPC client.
func NewServer(d Daemon) *Server {
	if d == nil {
		d = ipc.NewClient()
	}

	s := &Server{daemon: d}
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
		Name:        "taskbar_status",
		Description: "Report whether the per-display taskbar strips are enabled, and for each strip its display, position, size, appearance and item count.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "taskbar_enable",
		Description: "Show a taskbar strip along the bottom of every connected display. Does nothing if the strips are already shown.",
	}, s.handleEnable)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "taskbar_disable",
		Description: "Remove every taskbar strip. Does nothing if the strips are already hidden.",
	}, s.handleDisable)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "taskbar_reconcile",
		Description: "Re-read the connected displays now: strips on displays that disappeared are removed, new displays get a strip, and moved or resized displays have their strip repositioned.",
	}, s.handleReconcile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "taskbar_monitors",
		Description: "List connected displays with their bounds, usable work area, and whether a strip currently covers them.",
	}, s.handleMonitors)
}
