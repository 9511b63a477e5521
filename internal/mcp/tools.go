package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/taskstrip/internal/ipc"
)

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("taskbar_status: %w", err)
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleEnable(_ context.Context, _ *mcpsdk.CallToolRequest, _ ToggleInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.Enable()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("taskbar_enable: %w", err)
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleDisable(_ context.Context, _ *mcpsdk.CallToolRequest, _ ToggleInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.Disable()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("taskbar_disable: %w", err)
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleReconcile(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReconcileInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.Reconcile()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("taskbar_reconcile: %w", err)
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ MonitorsInput) (*mcpsdk.CallToolResult, MonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, MonitorsOutput{}, fmt.Errorf("taskbar_monitors: %w", err)
	}
	out := MonitorsOutput{Monitors: data.Monitors}
	if out.Monitors == nil {
		out.Monitors = []ipc.MonitorInfo{}
	}
	return nil, out, nil
}

func statusOutput(st *ipc.StatusData) StatusOutput {
	out := StatusOutput{
		Enabled:    st.Enabled,
		Appearance: st.Appearance,
		Height:     st.Height,
		Passes:     st.Passes,
		LastEvent:  st.LastEvent,
		Strips:     make([]StripStatus, 0, len(st.Surfaces)),
	}
	for _, surface := range st.Surfaces {
		out.Strips = append(out.Strips, StripStatus{
			Display:    string(surface.Display),
			X:          surface.X,
			Y:          surface.Y,
			Width:      surface.Width,
			Height:     surface.Height,
			Appearance: string(surface.Appearance),
			Visible:    surface.Visible,
			Items:      surface.Items,
		})
	}
	return out
}
