package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/1broseidon/taskstrip/internal/runtimepath"
)

// clientTimeout covers dialing, writing the request and reading the answer.
// It exceeds requestTimeout so a slow loop surfaces as a daemon error.
const clientTimeout = 5 * time.Second

// Client sends control commands to a running daemon. Every call uses its own
// connection carrying one request line and one response line.
type Client struct {
	socketPath string
	pathErr    error
	timeout    time.Duration
}

// NewClient returns a client for the default socket. A socket path that
// cannot be resolved is reported by the first call.
func NewClient() *Client {
	path, err := runtimepath.SocketPath()
	c := NewClientWithSocket(path)
	c.pathErr = err
	return c
}

// NewClientWithSocket returns a client for socketPath.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: clientTimeout}
}

// GetStatus reports the daemon and strip state.
func (c *Client) GetStatus() (*StatusData, error) { return call[StatusData](c, CommandStatus) }

// Enable asks the daemon to show the strips and returns the resulting status.
func (c *Client) Enable() (*StatusData, error) { return call[StatusData](c, CommandEnable) }

// Disable asks the daemon to remove the strips and returns the resulting status.
func (c *Client) Disable() (*StatusData, error) { return call[StatusData](c, CommandDisable) }

// Reconcile forces a display reconciliation pass.
func (c *Client) Reconcile() (*StatusData, error) { return call[StatusData](c, CommandReconcile) }

// Reload makes the daemon re-read its configuration.
func (c *Client) Reload() (*ReloadData, error) { return call[ReloadData](c, CommandReload) }

// GetMonitors lists the displays the daemon can see.
func (c *Client) GetMonitors() (*MonitorsData, error) {
	return call[MonitorsData](c, CommandGetMonitors)
}

// Ping checks that the daemon answers.
func (c *Client) Ping() error {
	_, err := c.roundTrip(CommandStatus)
	return err
}

// call sends cmd and decodes the response payload into a T. An OK response
// without data yields the zero T.
func call[T any](c *Client, cmd CommandType) (*T, error) {
	resp, err := c.roundTrip(cmd)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if len(resp.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", strings.ToLower(string(cmd)), err)
	}
	return out, nil
}

func (c *Client) roundTrip(cmd CommandType) (*Response, error) {
	if c.pathErr != nil {
		return nil, fmt.Errorf("failed to resolve daemon socket: %w", c.pathErr)
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	// Encode terminates the line the server reads up to.
	if err := json.NewEncoder(conn).Encode(Request{Command: cmd}); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", cmd, err)
	}
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}
