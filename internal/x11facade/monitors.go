package x11facade

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// monitor is a physical display's device-pixel geometry, prior to any
// work-area adjustment.
type monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// getMonitors retrieves all active monitors using XRandR.
func getMonitors(c *Connection) ([]monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []monitor

	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		if len(crtcInfo.Outputs) > 0 {
			outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
			if err == nil {
				outputName = string(outputInfo.Name)
			}
		}

		monitors = append(monitors, monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// workAreaFor computes m's usable work area: its device rectangle minus
// the struts reserved by dock/panel windows that overlap it, falling back
// to the EWMH _NET_WORKAREA for the current desktop when no dock windows
// are found.
func workAreaFor(c *Connection, m monitor) rectPx {
	device := rectPx{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}

	if adjusted, ok := applyDockStruts(c, device); ok {
		return adjusted
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return device
	}

	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}

	wa := workArea[desktopIndex]
	waRect := rectPx{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)}

	x1 := maxInt(device.X, waRect.X)
	y1 := maxInt(device.Y, waRect.Y)
	x2 := minInt(device.X+device.Width, waRect.X+waRect.Width)
	y2 := minInt(device.Y+device.Height, waRect.Y+waRect.Height)
	if x2 > x1 && y2 > y1 {
		return rectPx{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
	}
	return device
}

type rectPx struct {
	X, Y, Width, Height int
}

type dockStruts struct {
	left, right, top, bottom int
}

func applyDockStruts(c *Connection, device rectPx) (rectPx, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return device, false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return device, false
	}

	var struts dockStruts
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil {
			continue
		}

		isDock := false
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				isDock = true
				break
			}
		}
		if !isDock {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			accumulateStruts(device, rootWidth, rootHeight, sp, &struts)
			continue
		}

		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			sp := &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftStartY: 0, LeftEndY: uint(rootHeight - 1),
				RightStartY: 0, RightEndY: uint(rootHeight - 1),
				TopStartX: 0, TopEndX: uint(rootWidth - 1),
				BottomStartX: 0, BottomEndX: uint(rootWidth - 1),
			}
			accumulateStruts(device, rootWidth, rootHeight, sp, &struts)
		}
	}

	if struts.left == 0 && struts.right == 0 && struts.top == 0 && struts.bottom == 0 {
		return device, false
	}

	adjusted := device
	adjusted.X += struts.left
	adjusted.Y += struts.top
	adjusted.Width -= struts.left + struts.right
	adjusted.Height -= struts.top + struts.bottom
	if adjusted.Width < 1 {
		adjusted.Width = 1
	}
	if adjusted.Height < 1 {
		adjusted.Height = 1
	}
	return adjusted, true
}

func accumulateStruts(mon rectPx, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	monX1, monY1 := mon.X, mon.Y
	monX2, monY2 := mon.X+mon.Width, mon.Y+mon.Height

	if sp.Top > 0 {
		x1, x2 := int(sp.TopStartX), int(sp.TopEndX)+1
		y1, y2 := 0, int(sp.Top)
		if w, h := intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2); w > 0 && h > 0 {
			acc.top = maxInt(acc.top, h)
		}
	}
	if sp.Bottom > 0 {
		x1, x2 := int(sp.BottomStartX), int(sp.BottomEndX)+1
		y2, y1 := rootHeight, rootHeight-int(sp.Bottom)
		if w, h := intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2); w > 0 && h > 0 {
			acc.bottom = maxInt(acc.bottom, h)
		}
	}
	if sp.Left > 0 {
		x1, x2 := 0, int(sp.Left)
		y1, y2 := int(sp.LeftStartY), int(sp.LeftEndY)+1
		if w, h := intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2); w > 0 && h > 0 {
			acc.left = maxInt(acc.left, w)
		}
	}
	if sp.Right > 0 {
		x2, x1 := rootWidth, rootWidth-int(sp.Right)
		y1, y2 := int(sp.RightStartY), int(sp.RightEndY)+1
		if w, h := intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2); w > 0 && h > 0 {
			acc.right = maxInt(acc.right, w)
		}
	}
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) (w, h int) {
	x1 := maxInt(ax1, bx1)
	y1 := maxInt(ay1, by1)
	x2 := minInt(ax2, bx2)
	y2 := minInt(ay2, by2)
	if x2 <= x1 || y2 <= y1 {
		return 0, 0
	}
	return x2 - x1, y2 - y1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
