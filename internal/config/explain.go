package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	log_level
//	theme.border_size
//	animation.easing
//	global.default_direction
//	screen_padding.top
//	tile_region.type
//	managed_classes
//	keybindings.<key>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	leaf := func(fields map[string]any, whole any) (any, error) {
		switch len(parts) {
		case 1:
			return whole, nil
		case 2:
			if v, ok := fields[parts[1]]; ok {
				return v, nil
			}
		}
		return nil, unknown
	}

	switch parts[0] {
	case "log_level":
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.LogLevel, nil
	case "theme":
		return leaf(map[string]any{
			"border_size":    cfg.Theme.BorderSize,
			"active_color":   cfg.Theme.ActiveColor,
			"inactive_color": cfg.Theme.InactiveColor,
		}, cfg.Theme)
	case "animation":
		return leaf(map[string]any{
			"duration_ms": cfg.Animation.DurationMS,
			"easing":      cfg.Animation.Easing,
		}, cfg.Animation)
	case "global":
		return leaf(map[string]any{
			"pointer_focus_type": cfg.Global.PointerFocusType,
			"default_direction":  cfg.Global.DefaultDirection,
			"frame_rate":         cfg.Global.FrameRate,
			"sync_interval_ms":   cfg.Global.SyncIntervalMS,
		}, cfg.Global)
	case "screen_padding":
		return leaf(map[string]any{
			"top":    cfg.ScreenPadding.Top,
			"bottom": cfg.ScreenPadding.Bottom,
			"left":   cfg.ScreenPadding.Left,
			"right":  cfg.ScreenPadding.Right,
		}, cfg.ScreenPadding)
	case "tile_region":
		return leaf(map[string]any{
			"type":           cfg.TileRegion.Type,
			"x_percent":      cfg.TileRegion.XPercent,
			"y_percent":      cfg.TileRegion.YPercent,
			"width_percent":  cfg.TileRegion.WidthPercent,
			"height_percent": cfg.TileRegion.HeightPercent,
		}, cfg.TileRegion)
	case "managed_classes":
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.ManagedClasses, nil
	case "ignored_classes":
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.IgnoredClasses, nil
	case "keybindings":
		if len(parts) == 1 {
			return cfg.Keybindings, nil
		}
		// Key sequences never contain dots.
		if len(parts) != 2 {
			return nil, unknown
		}
		cmd, ok := cfg.Keybindings[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown keybinding %q", parts[1])
		}
		return cmd, nil
	default:
		return nil, unknown
	}
}
