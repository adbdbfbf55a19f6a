// Package facade defines the contract the reconciliation engine uses to
// talk to the host windowing environment. Nothing in this package knows
// about X11, Windows, or any other concrete desktop — that lives in
// adapters such as internal/x11facade.
package facade

// WindowID is an opaque, comparable handle to a top-level window. The
// engine never interprets its bits; only an adapter's conversion point
// does.
type WindowID uint32

// ProcessHandle is an opaque handle to a spawned process.
type ProcessHandle struct {
	PID int
}

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point (x, y) lies within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Display describes one physical monitor: its full device rectangle and
// the work area within it (device rect minus panels/docks).
type Display struct {
	ID     int
	Name   string
	Device Rect
	Work   Rect
}

// PlacementState is the three-way window state the engine cares about.
type PlacementState int

const (
	StateNormal PlacementState = iota
	StateMinimized
	StateMaximized
)

// WindowInfo is a transient snapshot of a top-level window's identity and
// geometry. The engine never retains one beyond the current
// reconciliation.
type WindowInfo struct {
	ID             WindowID
	PID            int
	ProcessPath    string
	AppUserModelID string
	Title          string
	Bounds         Rect
	State          PlacementState
}

// OS abstracts window-system and process-launch operations across
// platforms. The reconciliation engine depends only on this interface.
type OS interface {
	// Displays returns every active monitor, work area included.
	Displays() ([]Display, error)

	// ListWindows returns every top-level, non-popup window currently
	// visible to the window manager.
	ListWindows() ([]WindowInfo, error)

	// ActiveWindow returns the currently focused window, if any.
	ActiveWindow() (WindowID, bool, error)

	// MoveResize places a window at r in screen coordinates.
	MoveResize(id WindowID, r Rect) error

	// Minimize force-minimizes a window, suppressing animation.
	Minimize(id WindowID) error

	// Maximize maximizes a window on whichever monitor it currently sits.
	Maximize(id WindowID) error

	// Spawn starts a plain executable. elevated requests a privileged
	// launch path when the platform supports one.
	Spawn(path string, args []string, cwd string, elevated bool) (ProcessHandle, error)

	// LaunchPackaged launches the first app-list entry of a packaged
	// application identified by its full name, awaiting completion of
	// the launch request itself (not the application's startup).
	LaunchPackaged(fullName string) error

	// LaunchShellAUMID launches an application via its app-user-model id
	// (the shell "AppsFolder" launch surface), optionally elevated.
	LaunchShellAUMID(aumid string, args string, elevated bool) error

	// LaunchProtocol launches a URI-style protocol handler (e.g. a
	// steam: link), optionally elevated.
	LaunchProtocol(uri string, elevated bool) error
}
