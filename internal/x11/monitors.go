package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical output and the part of it not reserved by
// docks and panels.
type Monitor struct {
	ID     int
	Name   string
	Bounds Geometry
	Usable Geometry
}

// GetMonitors retrieves all active outputs using XRandR, with usable areas.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		bounds := Geometry{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)}
		monitors = append(monitors, Monitor{ID: i, Name: name, Bounds: bounds, Usable: bounds})
	}

	struts := c.dockStrutPartials()
	for k := range monitors {
		if len(struts) > 0 {
			monitors[k].Usable = c.applyStruts(monitors[k].Bounds, struts)
		} else {
			monitors[k].Usable = c.clipToWorkArea(monitors[k].Bounds)
		}
	}
	return monitors, nil
}

type strutAcc struct {
	left, right, top, bottom int
}

func (c *Connection) dockStrutPartials() []*ewmh.WmStrutPartial {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil
	}
	rootWidth, rootHeight := uint(rootGeom.Width), uint(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}

	var out []*ewmh.WmStrutPartial
	for _, windowID := range clients {
		if !c.isDock(windowID) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			out = append(out, sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			out = append(out, &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY:    rootHeight - 1,
				RightEndY:   rootHeight - 1,
				TopEndX:     rootWidth - 1,
				BottomEndX:  rootWidth - 1,
				LeftStartY:  0,
				RightStartY: 0,
			})
		}
	}
	return out
}

func (c *Connection) isDock(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func (c *Connection) applyStruts(mon Geometry, struts []*ewmh.WmStrutPartial) Geometry {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return mon
	}
	rootWidth, rootHeight := int(rootGeom.Width), int(rootGeom.Height)

	var acc strutAcc
	for _, sp := range struts {
		// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
		if sp.Top > 0 {
			r := Geometry{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)}
			acc.top = max(acc.top, overlap(mon, r).Height)
		}
		if sp.Bottom > 0 {
			r := Geometry{X: int(sp.BottomStartX), Y: rootHeight - int(sp.Bottom), Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom)}
			acc.bottom = max(acc.bottom, overlap(mon, r).Height)
		}
		if sp.Left > 0 {
			r := Geometry{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1}
			acc.left = max(acc.left, overlap(mon, r).Width)
		}
		if sp.Right > 0 {
			r := Geometry{X: rootWidth - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1}
			acc.right = max(acc.right, overlap(mon, r).Width)
		}
	}

	return Geometry{
		X:      mon.X + acc.left,
		Y:      mon.Y + acc.top,
		Width:  max(1, mon.Width-acc.left-acc.right),
		Height: max(1, mon.Height-acc.top-acc.bottom),
	}
}

// clipToWorkArea intersects mon with _NET_WORKAREA of the current desktop.
func (c *Connection) clipToWorkArea(mon Geometry) Geometry {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return mon
	}
	idx := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(workArea) {
		idx = int(current)
	}
	wa := workArea[idx]
	clipped := overlap(mon, Geometry{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)})
	if clipped.Width == 0 {
		return mon
	}
	return clipped
}

func overlap(a, b Geometry) Geometry {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Geometry{}
	}
	return Geometry{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
