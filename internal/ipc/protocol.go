package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/taskstrip/internal/taskbar"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandStatus      CommandType = "STATUS"
	CommandEnable      CommandType = "ENABLE"
	CommandDisable     CommandType = "DISABLE"
	CommandReconcile   CommandType = "RECONCILE"
	CommandReload      CommandType = "RELOAD"
	CommandGetMonitors CommandType = "GET_MONITORS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by STATUS, ENABLE, DISABLE and
// RECONCILE.
type StatusData struct {
	DaemonRunning bool                    `json:"daemon_running"`
	UptimeSeconds int64                   `json:"uptime_seconds"`
	Enabled       bool                    `json:"enabled"`
	Appearance    string                  `json:"appearance"`
	Height        int                     `json:"height"`
	Passes        uint64                  `json:"passes"`
	LastEvent     string                  `json:"last_event,omitempty"`
	Surfaces      []taskbar.SurfaceStatus `json:"surfaces"`
}

// Rect is a screen rectangle on the wire.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Usable Rect   `json:"usable"`
	Strip  bool   `json:"strip"` // a strip currently covers this monitor
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// ReloadData reports which parts of the configuration changed.
type ReloadData struct {
	Geometry   bool `json:"geometry"`
	Rendering  bool `json:"rendering"`
	Appearance bool `json:"appearance"`
	Enabled    bool `json:"enabled"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
