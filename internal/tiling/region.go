package tiling

import (
	"fmt"

	"github.com/1broseidon/treetile/internal/config"
	"github.com/1broseidon/treetile/internal/geom"
)

// ApplyRegion narrows a display area to the configured tile region.
func ApplyRegion(monitor geom.Rect, region config.TileRegion) geom.Rect {
	adjusted := monitor

	switch region.Type {
	case config.RegionFull:
		// No change

	case config.RegionLeftHalf:
		adjusted.Width = monitor.Width / 2

	case config.RegionRightHalf:
		adjusted.X = monitor.X + monitor.Width/2
		adjusted.Width = monitor.Width - monitor.Width/2

	case config.RegionTopHalf:
		adjusted.Height = monitor.Height / 2

	case config.RegionBottomHalf:
		adjusted.Y = monitor.Y + monitor.Height/2
		adjusted.Height = monitor.Height - monitor.Height/2

	case config.RegionCustom:
		adjusted.X = monitor.X + (monitor.Width * region.XPercent / 100)
		adjusted.Y = monitor.Y + (monitor.Height * region.YPercent / 100)
		adjusted.Width = monitor.Width * region.WidthPercent / 100
		adjusted.Height = monitor.Height * region.HeightPercent / 100
	}

	if adjusted.Width < 1 {
		adjusted.Width = 1
	}
	if adjusted.Height < 1 {
		adjusted.Height = 1
	}
	return adjusted
}

// RootArea is the rectangle a display's layout tiles: the usable area minus
// screen padding, narrowed by the tile region.
func RootArea(usable geom.Rect, cfg *config.Config) (geom.Rect, error) {
	p := cfg.ScreenPadding
	padded := geom.Rect{
		X:      usable.X + p.Left,
		Y:      usable.Y + p.Top,
		Width:  usable.Width - p.Left - p.Right,
		Height: usable.Height - p.Top - p.Bottom,
	}
	if padded.Empty() {
		return geom.Rect{}, fmt.Errorf("screen_padding leaves no usable space: %dx%d at %d,%d",
			padded.Width, padded.Height, padded.X, padded.Y)
	}
	return ApplyRegion(padded, cfg.TileRegion), nil
}
