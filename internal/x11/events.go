package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WatchRoot calls onChange whenever a top-level window maps, unmaps or is
// destroyed, when the root window is reconfigured (output changes), and when
// the client list or active window property changes. onChange runs on the
// event loop goroutine and must not block.
func (c *Connection) WatchRoot(onChange func(reason string)) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(
		xproto.EventMaskSubstructureNotify,
		xproto.EventMaskStructureNotify,
		xproto.EventMaskPropertyChange,
	); err != nil {
		return err
	}

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, _ xevent.MapNotifyEvent) {
		onChange("map")
	}).Connect(c.XUtil, c.Root)
	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, _ xevent.UnmapNotifyEvent) {
		onChange("unmap")
	}).Connect(c.XUtil, c.Root)
	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, _ xevent.DestroyNotifyEvent) {
		onChange("destroy")
	}).Connect(c.XUtil, c.Root)
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		// Child configure events are our own resizes.
		if ev.Window == c.Root {
			onChange("configure")
		}
	}).Connect(c.XUtil, c.Root)
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "_NET_CLIENT_LIST", "_NET_ACTIVE_WINDOW", "_NET_CURRENT_DESKTOP":
			onChange(name)
		}
	}).Connect(c.XUtil, c.Root)
	return nil
}
