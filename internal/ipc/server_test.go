package ipc

import (
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestServerClient_RoundTrip(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	var mu sync.Mutex
	var received []string
	done := make(chan struct{}, 1)

	handler := func(workspaceID string) {
		mu.Lock()
		received = append(received, workspaceID)
		mu.Unlock()
		done <- struct{}{}
	}

	server, err := NewServer("", handler, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer server.Stop()

	client := NewClient()
	if err := client.SendWorkspace("ws-home"); err != nil {
		t.Fatalf("SendWorkspace: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler invocation")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0] != "ws-home" {
		t.Fatalf("expected [ws-home], got %v", received)
	}
}

func TestNewServer_UsesExplicitSocketPathOverride(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	override := filepath.Join(t.TempDir(), "custom.sock")
	handler := func(workspaceID string) {}

	server, err := NewServer(override, handler, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if server.socketPath != override {
		t.Fatalf("expected socketPath %q, got %q", override, server.socketPath)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer server.Stop()

	if _, err := net.Dial("unix", override); err != nil {
		t.Fatalf("expected to connect at the overridden socket path: %v", err)
	}
}

func TestClient_DialFailsWhenNoDaemonRunning(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	client := NewClient()
	if err := client.SendWorkspace("ws-home"); err == nil {
		t.Fatalf("expected an error when no daemon is listening")
	}
}
