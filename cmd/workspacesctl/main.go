// Command workspacesctl sends a single workspace id to a running
// workspacesd daemon over the IPC channel.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/workspacesd/internal/ipc"
	"github.com/1broseidon/workspacesd/internal/x11facade"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr *os.File) int {
	fs := flag.NewFlagSet("workspacesctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: workspacesctl <workspace-id>|status")
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	if fs.Arg(0) == "status" {
		return runStatus(stderr)
	}

	workspaceID := fs.Arg(0)

	client := ipc.NewClient()
	if err := client.SendWorkspace(workspaceID); err != nil {
		fmt.Fprintf(stderr, "workspacesctl: %v\n", err)
		return 1
	}

	return 0
}

// runStatus reports the currently focused window, connecting to X11
// directly rather than through the daemon's IPC channel (which carries
// no response, per spec.md §6).
func runStatus(stderr *os.File) int {
	backend, err := x11facade.NewBackendFromDisplay()
	if err != nil {
		fmt.Fprintf(stderr, "workspacesctl: %v\n", err)
		return 1
	}
	defer backend.Close()

	id, ok, err := backend.ActiveWindow()
	if err != nil {
		fmt.Fprintf(stderr, "workspacesctl: %v\n", err)
		return 1
	}
	if !ok {
		fmt.Println("no active window")
		return 0
	}

	windows, err := backend.ListWindows()
	if err != nil {
		fmt.Fprintf(stderr, "workspacesctl: %v\n", err)
		return 1
	}
	for _, w := range windows {
		if w.ID == id {
			fmt.Printf("active window: %s (pid %d)\n", w.Title, w.PID)
			return 0
		}
	}

	fmt.Printf("active window: id %d\n", id)
	return 0
}
