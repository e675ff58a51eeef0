package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// UnmarshalTOML accepts the same string-or-list forms in TOML files.
func (l *IncludeList) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case string:
		*l = []string{v}
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, s)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMargins struct {
	Top    *int `yaml:"top" toml:"top"`
	Bottom *int `yaml:"bottom" toml:"bottom"`
	Left   *int `yaml:"left" toml:"left"`
	Right  *int `yaml:"right" toml:"right"`
}

type RawTileRegion struct {
	Type          *RegionType `yaml:"type" toml:"type"`
	XPercent      *int        `yaml:"x_percent" toml:"x_percent"`
	YPercent      *int        `yaml:"y_percent" toml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent" toml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent" toml:"height_percent"`
}

type RawTheme struct {
	BorderSize    *int    `yaml:"border_size" toml:"border_size"`
	ActiveColor   *string `yaml:"active_color" toml:"active_color"`
	InactiveColor *string `yaml:"inactive_color" toml:"inactive_color"`
}

type RawAnimation struct {
	DurationMS *int    `yaml:"duration_ms" toml:"duration_ms"`
	Easing     *string `yaml:"easing" toml:"easing"`
}

type RawGlobal struct {
	PointerFocusType *string `yaml:"pointer_focus_type" toml:"pointer_focus_type"`
	DefaultDirection *string `yaml:"default_direction" toml:"default_direction"`
	FrameRate        *int    `yaml:"frame_rate" toml:"frame_rate"`
	SyncIntervalMS   *int    `yaml:"sync_interval_ms" toml:"sync_interval_ms"`
}

type RawConfig struct {
	Include        IncludeList       `yaml:"include" toml:"include"`
	LogLevel       *string           `yaml:"log_level" toml:"log_level"`
	Theme          *RawTheme         `yaml:"theme" toml:"theme"`
	Animation      *RawAnimation     `yaml:"animation" toml:"animation"`
	Global         *RawGlobal        `yaml:"global" toml:"global"`
	ScreenPadding  *RawMargins       `yaml:"screen_padding" toml:"screen_padding"`
	TileRegion     *RawTileRegion    `yaml:"tile_region" toml:"tile_region"`
	ManagedClasses []string          `yaml:"managed_classes" toml:"managed_classes"`
	IgnoredClasses []string          `yaml:"ignored_classes" toml:"ignored_classes"`
	Keybindings    map[string]string `yaml:"keybindings" toml:"keybindings"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Theme != nil {
		if out.Theme == nil {
			out.Theme = &RawTheme{}
		}
		merged := mergeRawTheme(*out.Theme, *overlay.Theme)
		out.Theme = &merged
	}
	if overlay.Animation != nil {
		if out.Animation == nil {
			out.Animation = &RawAnimation{}
		}
		merged := *out.Animation
		if overlay.Animation.DurationMS != nil {
			merged.DurationMS = overlay.Animation.DurationMS
		}
		if overlay.Animation.Easing != nil {
			merged.Easing = overlay.Animation.Easing
		}
		out.Animation = &merged
	}
	if overlay.Global != nil {
		if out.Global == nil {
			out.Global = &RawGlobal{}
		}
		merged := mergeRawGlobal(*out.Global, *overlay.Global)
		out.Global = &merged
	}
	if overlay.ScreenPadding != nil {
		if out.ScreenPadding == nil {
			out.ScreenPadding = &RawMargins{}
		}
		merged := mergeRawMargins(*out.ScreenPadding, *overlay.ScreenPadding)
		out.ScreenPadding = &merged
	}
	if overlay.TileRegion != nil {
		if out.TileRegion == nil {
			out.TileRegion = &RawTileRegion{}
		}
		merged := mergeRawTileRegion(*out.TileRegion, *overlay.TileRegion)
		out.TileRegion = &merged
	}
	if overlay.ManagedClasses != nil {
		out.ManagedClasses = overlay.ManagedClasses
	}
	if overlay.IgnoredClasses != nil {
		out.IgnoredClasses = overlay.IgnoredClasses
	}
	if overlay.Keybindings != nil {
		merged := make(map[string]string, len(out.Keybindings)+len(overlay.Keybindings))
		for key, cmd := range out.Keybindings {
			merged[key] = cmd
		}
		for key, cmd := range overlay.Keybindings {
			merged[key] = cmd
		}
		out.Keybindings = merged
	}

	return out
}

func mergeRawTheme(base RawTheme, overlay RawTheme) RawTheme {
	out := base
	if overlay.BorderSize != nil {
		out.BorderSize = overlay.BorderSize
	}
	if overlay.ActiveColor != nil {
		out.ActiveColor = overlay.ActiveColor
	}
	if overlay.InactiveColor != nil {
		out.InactiveColor = overlay.InactiveColor
	}
	return out
}

func mergeRawGlobal(base RawGlobal, overlay RawGlobal) RawGlobal {
	out := base
	if overlay.PointerFocusType != nil {
		out.PointerFocusType = overlay.PointerFocusType
	}
	if overlay.DefaultDirection != nil {
		out.DefaultDirection = overlay.DefaultDirection
	}
	if overlay.FrameRate != nil {
		out.FrameRate = overlay.FrameRate
	}
	if overlay.SyncIntervalMS != nil {
		out.SyncIntervalMS = overlay.SyncIntervalMS
	}
	return out
}

func mergeRawMargins(base RawMargins, overlay RawMargins) RawMargins {
	out := base
	if overlay.Top != nil {
		out.Top = overlay.Top
	}
	if overlay.Bottom != nil {
		out.Bottom = overlay.Bottom
	}
	if overlay.Left != nil {
		out.Left = overlay.Left
	}
	if overlay.Right != nil {
		out.Right = overlay.Right
	}
	return out
}

func mergeRawTileRegion(base RawTileRegion, overlay RawTileRegion) RawTileRegion {
	out := base
	if overlay.Type != nil {
		out.Type = overlay.Type
	}
	if overlay.XPercent != nil {
		out.XPercent = overlay.XPercent
	}
	if overlay.YPercent != nil {
		out.YPercent = overlay.YPercent
	}
	if overlay.WidthPercent != nil {
		out.WidthPercent = overlay.WidthPercent
	}
	if overlay.HeightPercent != nil {
		out.HeightPercent = overlay.HeightPercent
	}
	return out
}
