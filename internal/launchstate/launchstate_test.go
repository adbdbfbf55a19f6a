package launchstate

import (
	"testing"

	"github.com/1broseidon/workspacesd/internal/facade"
	"github.com/1broseidon/workspacesd/internal/wsmodel"
)

func TestNew_AllWaiting(t *testing.T) {
	m := New([]wsmodel.Application{{Name: "a"}, {Name: "b"}})
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	for i := 0; i < 2; i++ {
		state, ok := m.Get(i)
		if !ok || state != Waiting {
			t.Fatalf("expected entry %d Waiting, got %v ok=%v", i, state, ok)
		}
	}
}

func TestNext_ReturnsFirstMatchingInOrder(t *testing.T) {
	m := New([]wsmodel.Application{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	m.Update(0, Launched)

	i, app, ok := m.Next(Waiting)
	if !ok {
		t.Fatalf("expected a waiting entry")
	}
	if i != 1 || app.Name != "b" {
		t.Fatalf("expected index 1 (b), got index %d (%s)", i, app.Name)
	}
}

func TestAllLaunchedAndMoved(t *testing.T) {
	m := New([]wsmodel.Application{{Name: "a"}, {Name: "b"}})
	if m.AllLaunchedAndMoved() {
		t.Fatalf("expected false while entries are waiting")
	}

	m.UpdateWindow(0, facade.WindowID(1), LaunchedAndMoved)
	m.Update(1, Failed)
	if !m.AllLaunchedAndMoved() {
		t.Fatalf("expected true once every entry is terminal")
	}
}

func TestAllInstancesLaunchedAndMoved_ScopedByIdentity(t *testing.T) {
	shared := wsmodel.Application{Path: "/usr/bin/gnome-terminal"}
	other := wsmodel.Application{Path: "/usr/bin/firefox"}
	m := New([]wsmodel.Application{shared, shared, other})

	if m.AllInstancesLaunchedAndMoved(shared) {
		t.Fatalf("expected false, both shared-identity instances still waiting")
	}

	m.Update(0, LaunchedAndMoved)
	if m.AllInstancesLaunchedAndMoved(shared) {
		t.Fatalf("expected false, second shared-identity instance still waiting")
	}

	m.Update(1, Failed)
	if !m.AllInstancesLaunchedAndMoved(shared) {
		t.Fatalf("expected true once both shared-identity instances are terminal")
	}
}

func TestIsWindowBound(t *testing.T) {
	m := New([]wsmodel.Application{{Name: "a"}})
	if m.IsWindowBound(facade.WindowID(1)) {
		t.Fatalf("expected not bound before UpdateWindow")
	}
	m.UpdateWindow(0, facade.WindowID(1), LaunchedAndMoved)
	if !m.IsWindowBound(facade.WindowID(1)) {
		t.Fatalf("expected bound after UpdateWindow")
	}
}

func TestCancel_MovesNonTerminalToFailed(t *testing.T) {
	m := New([]wsmodel.Application{{Name: "a"}, {Name: "b"}})
	m.UpdateWindow(0, facade.WindowID(1), LaunchedAndMoved)

	m.Cancel()

	s0, _ := m.Get(0)
	s1, _ := m.Get(1)
	if s0 != LaunchedAndMoved {
		t.Fatalf("expected terminal entry untouched, got %v", s0)
	}
	if s1 != Failed {
		t.Fatalf("expected non-terminal entry cancelled to Failed, got %v", s1)
	}
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		Waiting:          "waiting",
		Launched:         "launched",
		LaunchedAndMoved: "launched_and_moved",
		Failed:           "failed",
		State(99):        "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
