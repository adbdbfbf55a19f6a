package ipc

import (
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/workspacesd/internal/runtimepath"
)

// Client sends workspace-id requests to the daemon over the IPC socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client targeting the daemon's standard
// runtime socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; SendWorkspace surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// SendWorkspace opens a fresh connection, writes workspaceID as raw
// UTF-16LE, and closes the connection. There is no response to wait
// for: the core's send pipe is unused per spec.md §6.
func (c *Client) SendWorkspace(workspaceID string) error {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	payload, err := encodeUTF16LE(workspaceID)
	if err != nil {
		return fmt.Errorf("failed to encode workspace id: %w", err)
	}

	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to send workspace id: %w", err)
	}

	return nil
}
