package config

import (
	"fmt"
	"sort"
	"strings"
)

// UnbindCommand removes a key binding inherited from defaults or includes.
const UnbindCommand = "none"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" {
		return fmt.Sprintf("%s: %s: %v", e.Source.File, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig overlays raw onto DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Theme != nil {
		if raw.Theme.BorderSize != nil {
			cfg.Theme.BorderSize = *raw.Theme.BorderSize
		}
		if raw.Theme.ActiveColor != nil {
			cfg.Theme.ActiveColor = *raw.Theme.ActiveColor
		}
		if raw.Theme.InactiveColor != nil {
			cfg.Theme.InactiveColor = *raw.Theme.InactiveColor
		}
	}
	if raw.Animation != nil {
		cfg.Animation.DurationMS = derefInt(raw.Animation.DurationMS, cfg.Animation.DurationMS)
		if raw.Animation.Easing != nil {
			cfg.Animation.Easing = strings.ToLower(*raw.Animation.Easing)
		}
	}
	if raw.Global != nil {
		if raw.Global.PointerFocusType != nil {
			cfg.Global.PointerFocusType = *raw.Global.PointerFocusType
		}
		if raw.Global.DefaultDirection != nil {
			cfg.Global.DefaultDirection = strings.ToLower(*raw.Global.DefaultDirection)
		}
		cfg.Global.FrameRate = derefInt(raw.Global.FrameRate, cfg.Global.FrameRate)
		cfg.Global.SyncIntervalMS = derefInt(raw.Global.SyncIntervalMS, cfg.Global.SyncIntervalMS)
	}
	if raw.ScreenPadding != nil {
		cfg.ScreenPadding.Top = derefInt(raw.ScreenPadding.Top, cfg.ScreenPadding.Top)
		cfg.ScreenPadding.Bottom = derefInt(raw.ScreenPadding.Bottom, cfg.ScreenPadding.Bottom)
		cfg.ScreenPadding.Left = derefInt(raw.ScreenPadding.Left, cfg.ScreenPadding.Left)
		cfg.ScreenPadding.Right = derefInt(raw.ScreenPadding.Right, cfg.ScreenPadding.Right)
	}
	if raw.TileRegion != nil {
		if raw.TileRegion.Type != nil {
			cfg.TileRegion.Type = *raw.TileRegion.Type
		}
		cfg.TileRegion.XPercent = derefInt(raw.TileRegion.XPercent, cfg.TileRegion.XPercent)
		cfg.TileRegion.YPercent = derefInt(raw.TileRegion.YPercent, cfg.TileRegion.YPercent)
		cfg.TileRegion.WidthPercent = derefInt(raw.TileRegion.WidthPercent, cfg.TileRegion.WidthPercent)
		cfg.TileRegion.HeightPercent = derefInt(raw.TileRegion.HeightPercent, cfg.TileRegion.HeightPercent)
	}
	if raw.ManagedClasses != nil {
		cfg.ManagedClasses = append([]string{}, raw.ManagedClasses...)
	}
	if raw.IgnoredClasses != nil {
		cfg.IgnoredClasses = append([]string{}, raw.IgnoredClasses...)
	}
	for _, key := range sortedKeys(raw.Keybindings) {
		cmd := strings.TrimSpace(raw.Keybindings[key])
		if strings.TrimSpace(key) == "" {
			return nil, &ValidationError{Path: "keybindings", Err: fmt.Errorf("key sequence must not be empty")}
		}
		if strings.EqualFold(cmd, UnbindCommand) {
			delete(cfg.Keybindings, key)
			continue
		}
		cfg.Keybindings[key] = cmd
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
