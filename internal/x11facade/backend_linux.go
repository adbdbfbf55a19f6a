//go:build linux

package x11facade

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/1broseidon/workspacesd/internal/facade"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Backend implements facade.OS against a live X11 server, adapted from
// termtile's platform.LinuxBackend. AppUserModelID is always empty here:
// X11 has no equivalent concept, so the matcher falls through to its
// Path and Stem predicates on this platform.
type Backend struct {
	conn *Connection
}

var _ facade.OS = (*Backend)(nil)

// NewBackend wraps an existing X11 connection.
func NewBackend(conn *Connection) *Backend {
	return &Backend{conn: conn}
}

// NewBackendFromDisplay opens a fresh X11 connection and wraps it.
func NewBackendFromDisplay() (*Backend, error) {
	conn, err := NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &Backend{conn: conn}, nil
}

// Close disconnects from the X11 server.
func (b *Backend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

func (b *Backend) Displays() ([]facade.Display, error) {
	monitors, err := getMonitors(b.conn)
	if err != nil {
		return nil, err
	}

	displays := make([]facade.Display, 0, len(monitors))
	for _, m := range monitors {
		work := workAreaFor(b.conn, m)
		displays = append(displays, facade.Display{
			ID:     m.ID,
			Name:   m.Name,
			Device: facade.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Work:   facade.Rect{X: work.X, Y: work.Y, Width: work.Width, Height: work.Height},
		})
	}

	sort.Slice(displays, func(i, j int) bool { return displays[i].ID < displays[j].ID })

	return displays, nil
}

func (b *Backend) ListWindows() ([]facade.WindowInfo, error) {
	clients, err := ewmh.ClientListGet(b.conn.XUtil)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	windows := make([]facade.WindowInfo, 0, len(clients))
	for _, windowID := range clients {
		if !isNormalWindow(b.conn, windowID) {
			continue
		}

		rect, ok := windowGeometry(b.conn, windowID)
		if !ok {
			continue
		}

		pid := 0
		if p, err := ewmh.WmPidGet(b.conn.XUtil, windowID); err == nil {
			pid = int(p)
		}

		windows = append(windows, facade.WindowInfo{
			ID:             facade.WindowID(windowID),
			PID:            pid,
			ProcessPath:    processPath(pid),
			AppUserModelID: "",
			Title:          windowTitle(b.conn, windowID),
			Bounds:         rect,
			State:          placementState(windowStateOf(b.conn, windowID)),
		})
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].ID < windows[j].ID })

	return windows, nil
}

func (b *Backend) ActiveWindow() (facade.WindowID, bool, error) {
	windowID, err := activeWindow(b.conn)
	if err != nil {
		return 0, false, err
	}
	if windowID == 0 {
		return 0, false, nil
	}
	return facade.WindowID(windowID), true, nil
}

func (b *Backend) MoveResize(id facade.WindowID, r facade.Rect) error {
	return moveResizeWindow(b.conn, xproto.Window(id), r.X, r.Y, r.Width, r.Height)
}

func (b *Backend) Minimize(id facade.WindowID) error {
	return minimizeWindow(b.conn, xproto.Window(id))
}

func (b *Backend) Maximize(id facade.WindowID) error {
	return maximizeWindow(b.conn, xproto.Window(id))
}

// Spawn starts a plain executable. elevated is honored via pkexec when
// the caller is not already root.
func (b *Backend) Spawn(path string, args []string, cwd string, elevated bool) (facade.ProcessHandle, error) {
	name, argv := path, args
	if elevated && os.Geteuid() != 0 {
		name = "pkexec"
		argv = append([]string{path}, args...)
	}

	cmd := exec.Command(name, argv...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	if err := cmd.Start(); err != nil {
		return facade.ProcessHandle{}, fmt.Errorf("spawn %s: %w", path, err)
	}

	go cmd.Wait()

	return facade.ProcessHandle{PID: cmd.Process.Pid}, nil
}

// LaunchPackaged has no Linux equivalent to a packaged-app full name and
// always returns an error. The launcher cascade tries its AUMID step
// (cache Spawn or LaunchShellAUMID) before this one and reaches it only
// when that step is skipped or fails.
func (b *Backend) LaunchPackaged(fullName string) error {
	return fmt.Errorf("x11facade: packaged launch unsupported for %q", fullName)
}

// LaunchShellAUMID launches a desktop application by id via gio, the
// Linux analogue of the shell AppsFolder launch surface. The launcher
// cascade only reaches this when the apps cache has no entry for aumid.
func (b *Backend) LaunchShellAUMID(aumid string, args string, elevated bool) error {
	name, argv := "gio", []string{"launch", aumid}
	if args != "" {
		argv = append(argv, strings.Fields(args)...)
	}
	if elevated && os.Geteuid() != 0 {
		argv = append([]string{name}, argv...)
		name = "pkexec"
	}

	cmd := exec.Command(name, argv...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch shell aumid %q: %w", aumid, err)
	}
	go cmd.Wait()
	return nil
}

// LaunchProtocol launches a URI-style handler (steam:, https:, ...) via
// xdg-open.
func (b *Backend) LaunchProtocol(uri string, elevated bool) error {
	name, argv := "xdg-open", []string{uri}
	if elevated && os.Geteuid() != 0 {
		argv = append([]string{name}, argv...)
		name = "pkexec"
	}

	cmd := exec.Command(name, argv...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch protocol %q: %w", uri, err)
	}
	go cmd.Wait()
	return nil
}

func placementState(s int) facade.PlacementState {
	switch s {
	case stateMinimized:
		return facade.StateMinimized
	case stateMaximized:
		return facade.StateMaximized
	default:
		return facade.StateNormal
	}
}

func windowGeometry(c *Connection, windowID xproto.Window) (facade.Rect, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return facade.Rect{}, false
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return facade.Rect{}, false
	}

	return facade.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}

func windowTitle(c *Connection, windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	return ""
}

// processPath resolves a PID's executable path via /proc, the closest
// Linux equivalent to the process image path the matcher's Path
// predicate compares against.
func processPath(pid int) string {
	if pid <= 0 {
		return ""
	}
	link, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return ""
	}
	return link
}
