package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/taskstrip/internal/config"
	"github.com/1broseidon/taskstrip/internal/platform"
	"github.com/1broseidon/taskstrip/internal/runtimepath"
	"github.com/1broseidon/taskstrip/internal/taskbar"
)

// requestTimeout bounds how long a command waits for the taskbar loop. It
// stays under the client's deadline so the client sees a proper error.
const requestTimeout = 4 * time.Second

// Loop is the part of the taskbar loop the server drives.
type Loop interface {
	SubmitWait(ctx context.Context, ev taskbar.Event) error
	Status() taskbar.LoopStatus
}

// Reloader re-reads the configuration.
type Reloader interface {
	Reload(source string) (config.Change, error)
}

// ServerOptions are the collaborators the server reports on and drives.
type ServerOptions struct {
	Loop     Loop
	Displays platform.DisplayProvider
	Theme    platform.ThemeProvider
	Settings taskbar.Settings
	Reloader Reloader
	Logger   *slog.Logger
	// SocketPath overrides the runtime socket location.
	SocketPath string
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	opts         ServerOptions
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		opts:       opts,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", string(req.Command))

	switch req.Command {
	case CommandStatus:
		return s.handleStatus()
	case CommandEnable:
		return s.handleRequest(taskbar.EnableRequested)
	case CommandDisable:
		return s.handleRequest(taskbar.DisableRequested)
	case CommandReconcile:
		return s.handleRequest(taskbar.TopologyChanged)
	case CommandReload:
		return s.handleReload()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleRequest submits kind and waits for its pass, then reports status.
func (s *Server) handleRequest(kind taskbar.EventKind) *Response {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := s.opts.Loop.SubmitWait(ctx, taskbar.Event{Kind: kind, Source: "ipc"}); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply %s: %v", kind, err))
	}
	return s.handleStatus()
}

// handleStatus returns current daemon status
func (s *Server) handleStatus() *Response {
	resp, err := NewOKResponse(s.status())
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) status() StatusData {
	st := s.opts.Loop.Status()
	data := StatusData{
		DaemonRunning: true,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Enabled:       st.Enabled,
		Passes:        st.Passes,
		LastEvent:     st.LastEvent,
		Surfaces:      st.Surfaces,
	}
	if data.Surfaces == nil {
		data.Surfaces = []taskbar.SurfaceStatus{}
	}
	if s.opts.Theme != nil {
		data.Appearance = string(s.opts.Theme.Appearance())
	}
	if s.opts.Settings != nil {
		data.Height = s.opts.Settings.TaskbarHeight()
	}
	return data
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	if s.opts.Reloader == nil {
		return NewErrorResponse("reload is not available")
	}

	change, err := s.opts.Reloader.Reload("ipc")
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	resp, err := NewOKResponse(ReloadData{
		Geometry:   change.Geometry,
		Rendering:  change.Rendering,
		Appearance: change.Appearance,
		Enabled:    change.Enabled,
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	if s.opts.Displays == nil {
		return NewErrorResponse("display enumeration is not available")
	}
	displays, err := s.opts.Displays.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	covered := make(map[platform.DisplayID]bool)
	for _, surface := range s.opts.Loop.Status().Surfaces {
		covered[surface.Display] = true
	}

	monitorInfos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		monitorInfos[i] = MonitorInfo{
			ID:     string(d.ID),
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
			Usable: Rect{
				X:      d.Usable.X,
				Y:      d.Usable.Y,
				Width:  d.Usable.Width,
				Height: d.Usable.Height,
			},
			Strip: covered[d.ID],
		}
	}

	resp, err := NewOKResponse(MonitorsData{Monitors: monitorInfos})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
