// Package launchstate tracks each workspace application's progress
// through the launch state machine during a single reconciliation, using
// an arena-index design (apps indexed 0..n-1, state in a parallel slice)
// as suggested in the spec's design notes, mirroring the reader/writer
// lock discipline of the teacher's internal/tiling.Tiler and
// internal/ipc.Server.
package launchstate

import (
	"sync"

	"github.com/1broseidon/workspacesd/internal/facade"
	"github.com/1broseidon/workspacesd/internal/wsmodel"
)

// State is one application's position in the launch state machine.
type State int

const (
	Waiting State = iota
	Launched
	LaunchedAndMoved
	Failed
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Launched:
		return "launched"
	case LaunchedAndMoved:
		return "launched_and_moved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type entry struct {
	app    wsmodel.Application
	state  State
	window facade.WindowID
	bound  bool
}

// Map is a thread-safe, order-preserving launch-state map keyed by
// application index.
type Map struct {
	mu      sync.RWMutex
	entries []entry
}

// New creates a Map with every application in apps starting in Waiting,
// in workspace order.
func New(apps []wsmodel.Application) *Map {
	entries := make([]entry, len(apps))
	for i, app := range apps {
		entries[i] = entry{app: app, state: Waiting}
	}
	return &Map{entries: entries}
}

// Get returns the current state of the application at index i.
func (m *Map) Get(i int) (State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.entries) {
		return Waiting, false
	}
	return m.entries[i].state, true
}

// Next returns the index and application of the first entry (workspace
// order) currently in state, or ok=false if none remain.
func (m *Map) Next(state State) (int, wsmodel.Application, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i, e := range m.entries {
		if e.state == state {
			return i, e.app, true
		}
	}
	return 0, wsmodel.Application{}, false
}

// AllLaunchedAndMoved reports whether every entry has reached a terminal
// bound or failed state.
func (m *Map) AllLaunchedAndMoved() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.state != LaunchedAndMoved && e.state != Failed {
			return false
		}
	}
	return true
}

// AllInstancesLaunchedAndMoved reports whether every entry sharing app's
// identity (per wsmodel.Application.SameIdentity) is LaunchedAndMoved or
// Failed.
func (m *Map) AllInstancesLaunchedAndMoved(app wsmodel.Application) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if !e.app.SameIdentity(app) {
			continue
		}
		if e.state != LaunchedAndMoved && e.state != Failed {
			return false
		}
	}
	return true
}

// Update sets the state of the application at index i. Invalid indexes
// are ignored.
func (m *Map) Update(i int, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.entries) {
		return
	}
	m.entries[i].state = state
}

// UpdateWindow sets the state and bound window handle of the
// application at index i.
func (m *Map) UpdateWindow(i int, win facade.WindowID, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.entries) {
		return
	}
	m.entries[i].window = win
	m.entries[i].bound = true
	m.entries[i].state = state
}

// IsWindowBound reports whether win is already bound to some
// application, preventing double-binding.
func (m *Map) IsWindowBound(win facade.WindowID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.bound && e.window == win {
			return true
		}
	}
	return false
}

// Cancel moves every non-terminal entry to Failed.
func (m *Map) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].state != LaunchedAndMoved && m.entries[i].state != Failed {
			m.entries[i].state = Failed
		}
	}
}

// Len returns the number of tracked applications.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
