package pwa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/workspacesd/internal/facade"
)

func TestChromiumResolver_ResolvesByWindowTitle(t *testing.T) {
	profileDir := t.TempDir()
	defaultProfile := filepath.Join(profileDir, "Default")
	if err := os.MkdirAll(defaultProfile, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	prefs := `{"web_apps": {"abcdef": {"name": "Gmail"}}}`
	if err := os.WriteFile(filepath.Join(defaultProfile, "Preferences"), []byte(prefs), 0644); err != nil {
		t.Fatalf("write prefs: %v", err)
	}

	resolver := NewChromiumResolver([]string{profileDir}, func(facade.WindowID) string {
		return "Gmail"
	})

	id, ok := resolver.ResolveAppID(facade.WindowID(1))
	if !ok {
		t.Fatalf("expected a resolved app id")
	}
	if id != "abcdef" {
		t.Fatalf("expected abcdef, got %q", id)
	}
}

func TestChromiumResolver_NoMatchForUnknownTitle(t *testing.T) {
	resolver := NewChromiumResolver(nil, func(facade.WindowID) string {
		return "Some Random App"
	})

	if _, ok := resolver.ResolveAppID(facade.WindowID(1)); ok {
		t.Fatalf("expected no match with no profile dirs configured")
	}
}

func TestChromiumResolver_NilWindowTitleFunc(t *testing.T) {
	resolver := NewChromiumResolver(nil, nil)
	if _, ok := resolver.ResolveAppID(facade.WindowID(1)); ok {
		t.Fatalf("expected no match when windowTitle is nil")
	}
}
