// Package matcher decides whether a window matches a workspace
// application and, when several candidates match, which one is closest
// to the target placement. Grounded in the ordered-predicate cascade of
// WorkspacesService.cpp's IsWindowMatchApp.
package matcher

import (
	"path/filepath"
	"strings"

	"github.com/1broseidon/workspacesd/internal/facade"
	"github.com/1broseidon/workspacesd/internal/pwa"
	"github.com/1broseidon/workspacesd/internal/wsmodel"
)

// browserStems are the process stems treated as PWA hosts.
var browserStems = map[string]bool{
	"msedge": true,
	"chrome": true,
}

// IsMatch reports whether win belongs to app, trying each predicate in
// priority order and stopping at the first that applies.
func IsMatch(win facade.WindowInfo, app wsmodel.Application, resolver pwa.Resolver) bool {
	if matchesAUMID(win, app) {
		return true
	}
	if matchesPath(win, app) {
		return true
	}
	if matchesStem(win, app) {
		return true
	}
	return matchesPWA(win, app, resolver)
}

func matchesAUMID(win facade.WindowInfo, app wsmodel.Application) bool {
	return win.AppUserModelID != "" && app.AppUserModelID != "" && win.AppUserModelID == app.AppUserModelID
}

func matchesPath(win facade.WindowInfo, app wsmodel.Application) bool {
	if app.Path == "" {
		return false
	}
	return strings.EqualFold(win.ProcessPath, app.Path)
}

func matchesStem(win facade.WindowInfo, app wsmodel.Application) bool {
	if app.Name == "" || win.ProcessPath == "" {
		return false
	}
	return strings.EqualFold(stem(win.ProcessPath), app.Name)
}

func matchesPWA(win facade.WindowInfo, app wsmodel.Application, resolver pwa.Resolver) bool {
	if app.PWAAppID == "" || resolver == nil {
		return false
	}
	if !browserStems[strings.ToLower(stem(win.ProcessPath))] {
		return false
	}
	id, ok := resolver.ResolveAppID(win.ID)
	if !ok {
		return false
	}
	return id == app.PWAAppID
}

// stem returns the basename of path with its extension removed.
func stem(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Distance scores how far win is from app's target placement: 0 when
// both are minimized, otherwise a placement-agreement penalty plus the
// Manhattan delta between win's rectangle and app's target rectangle.
// Lower is closer; used only to arbitrate among Phase 4 candidates.
func Distance(win facade.WindowInfo, app wsmodel.Application) int {
	winMinimized := win.State == facade.StateMinimized

	if app.IsMinimized && winMinimized {
		return 0
	}

	const placementMismatchPenalty = 10000
	penalty := 1
	if app.IsMinimized != winMinimized {
		penalty = placementMismatchPenalty
	}

	delta := absInt(app.Position.X-win.Bounds.X) +
		absInt(app.Position.Y-win.Bounds.Y) +
		absInt(app.Position.X+app.Position.Width-(win.Bounds.X+win.Bounds.Width)) +
		absInt(app.Position.Y+app.Position.Height-(win.Bounds.Y+win.Bounds.Height))

	return penalty + delta
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
