package x11facade

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// moveResizeWindow moves and resizes a window to the given geometry,
// clearing any maximized state first since most window managers ignore
// resize requests on a maximized window.
func moveResizeWindow(c *Connection, windowID xproto.Window, x, y, width, height int) error {
	_ = unmaximizeWindow(c, windowID)

	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		win := xwindow.New(c.XUtil, windowID)
		win.MoveResize(x, y, width, height)
	}

	return nil
}

// maximizeWindow requests both the horizontal and vertical maximized
// states for windowID.
func maximizeWindow(c *Connection, windowID xproto.Window) error {
	if err := ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_VERT"); err != nil {
		return err
	}
	return ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_HORZ")
}

// unmaximizeWindow clears maximized state from a window, if present.
func unmaximizeWindow(c *Connection, windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	var hasMaxH, hasMaxV bool
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			hasMaxH = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			hasMaxV = true
		}
	}

	if hasMaxH {
		ewmh.WmStateReq(c.XUtil, windowID, 0, "_NET_WM_STATE_MAXIMIZED_HORZ")
	}
	if hasMaxV {
		ewmh.WmStateReq(c.XUtil, windowID, 0, "_NET_WM_STATE_MAXIMIZED_VERT")
	}

	return nil
}

// minimizeWindow force-minimizes windowID via a WM_CHANGE_STATE client
// message, the ICCCM iconify request.
func minimizeWindow(c *Connection, windowID xproto.Window) error {
	atom, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return err
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atom.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEvent(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// isNormalWindow is the popup filter: it accepts windows typed NORMAL or
// untyped, and rejects desktop, dock, splash, and notification surfaces.
func isNormalWindow(c *Connection, windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	return len(types) == 0
}

func activeWindow(c *Connection) (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

func windowStateOf(c *Connection, windowID xproto.Window) int {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return stateNormal
	}

	var hasMaxH, hasMaxV, hidden bool
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			hasMaxH = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			hasMaxV = true
		case "_NET_WM_STATE_HIDDEN":
			hidden = true
		}
	}

	if hidden {
		return stateMinimized
	}
	if hasMaxH && hasMaxV {
		return stateMaximized
	}
	return stateNormal
}

const (
	stateNormal = iota
	stateMinimized
	stateMaximized
)
