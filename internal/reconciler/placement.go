package reconciler

import (
	"github.com/1broseidon/workspacesd/internal/facade"
	"github.com/1broseidon/workspacesd/internal/wsmodel"
)

// placeWindow implements the window placement primitive of spec.md
// §4.7: minimize suppresses animation outright; normal and maximized
// both first re-seat the window on the monitor whose work area contains
// the target rectangle's top-left, translating device coordinates into
// that monitor's work-area coordinates, then maximized additionally
// issues a maximize.
func placeWindow(os facade.OS, displays []facade.Display, win facade.WindowID, app wsmodel.Application) error {
	if app.IsMinimized {
		return os.Minimize(win)
	}

	target := translateToWorkArea(displays, facade.Rect{
		X:      app.Position.X,
		Y:      app.Position.Y,
		Width:  app.Position.Width,
		Height: app.Position.Height,
	})
	if err := os.MoveResize(win, target); err != nil {
		return err
	}

	if app.IsMaximized {
		return os.Maximize(win)
	}
	return nil
}

// translateToWorkArea finds the monitor whose work area contains r's
// top-left corner and subtracts that monitor's (work.origin -
// device.origin) offset from r. Falls back to the first display
// (primary) when no monitor's work area contains the point.
func translateToWorkArea(displays []facade.Display, r facade.Rect) facade.Rect {
	target := displays
	var chosen *facade.Display
	for i := range target {
		if target[i].Work.Contains(r.X, r.Y) {
			chosen = &target[i]
			break
		}
	}
	if chosen == nil && len(target) > 0 {
		chosen = &target[0]
	}
	if chosen == nil {
		return r
	}

	dx := chosen.Work.X - chosen.Device.X
	dy := chosen.Work.Y - chosen.Device.Y

	return facade.Rect{
		X:      r.X - dx,
		Y:      r.Y - dy,
		Width:  r.Width,
		Height: r.Height,
	}
}
