package facade

import (
	"fmt"
	"sort"
	"sync"
)

// Fake is an in-memory OS implementation for exercising the reconciliation
// engine without a real window system. Tests script window lists and
// launch outcomes directly.
type Fake struct {
	mu sync.Mutex

	displays []Display
	windows  map[WindowID]WindowInfo
	nextID   WindowID

	// LaunchFailures, keyed by a caller-chosen identifier (path, AUMID, or
	// full name), makes a launch call with that key fail with the stored
	// error. Missing entries default to success.
	LaunchFailures map[string]error

	// LaunchWindows, keyed the same way, spawns a window (with a fresh
	// ID) when that launch strategy succeeds, simulating a process that
	// opens a window shortly after being started.
	LaunchWindows map[string]WindowInfo

	MoveResizeCalls []MoveResizeCall
	MinimizeCalls   []WindowID
	MaximizeCalls   []WindowID
}

type MoveResizeCall struct {
	ID   WindowID
	Rect Rect
}

// NewFake creates an empty fake with a single 1920x1080 display.
func NewFake() *Fake {
	return &Fake{
		displays: []Display{{
			ID:     0,
			Name:   "fake-0",
			Device: Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			Work:   Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
		}},
		windows:        make(map[WindowID]WindowInfo),
		LaunchFailures: make(map[string]error),
		LaunchWindows:  make(map[string]WindowInfo),
	}
}

// SetDisplays replaces the fake's monitor topology.
func (f *Fake) SetDisplays(d []Display) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.displays = d
}

// AddWindow registers a window and returns its assigned ID.
func (f *Fake) AddWindow(w WindowInfo) WindowID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	w.ID = f.nextID
	f.windows[w.ID] = w
	return w.ID
}

func (f *Fake) Displays() ([]Display, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Display, len(f.displays))
	copy(out, f.displays)
	return out, nil
}

func (f *Fake) ListWindows() ([]WindowInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]WindowInfo, 0, len(f.windows))
	for _, w := range f.windows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Fake) ActiveWindow() (WindowID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id := range f.windows {
		return id, true, nil
	}
	return 0, false, nil
}

func (f *Fake) MoveResize(id WindowID, r Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[id]
	if !ok {
		return fmt.Errorf("fake: unknown window %d", id)
	}
	w.Bounds = r
	if w.State == StateMinimized {
		w.State = StateNormal
	}
	f.windows[id] = w
	f.MoveResizeCalls = append(f.MoveResizeCalls, MoveResizeCall{ID: id, Rect: r})
	return nil
}

func (f *Fake) Minimize(id WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[id]
	if !ok {
		return fmt.Errorf("fake: unknown window %d", id)
	}
	w.State = StateMinimized
	f.windows[id] = w
	f.MinimizeCalls = append(f.MinimizeCalls, id)
	return nil
}

func (f *Fake) Maximize(id WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[id]
	if !ok {
		return fmt.Errorf("fake: unknown window %d", id)
	}
	w.State = StateMaximized
	f.windows[id] = w
	f.MaximizeCalls = append(f.MaximizeCalls, id)
	return nil
}

func (f *Fake) Spawn(path string, args []string, cwd string, elevated bool) (ProcessHandle, error) {
	return f.launch(path)
}

func (f *Fake) LaunchPackaged(fullName string) error {
	_, err := f.launch(fullName)
	return err
}

func (f *Fake) LaunchShellAUMID(aumid string, args string, elevated bool) error {
	_, err := f.launch(aumid)
	return err
}

func (f *Fake) LaunchProtocol(uri string, elevated bool) error {
	_, err := f.launch(uri)
	return err
}

func (f *Fake) launch(key string) (ProcessHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.LaunchFailures[key]; ok {
		return ProcessHandle{}, err
	}

	if w, ok := f.LaunchWindows[key]; ok {
		f.nextID++
		w.ID = f.nextID
		f.windows[w.ID] = w
	}

	return ProcessHandle{PID: 1}, nil
}
