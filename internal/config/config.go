package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/treetile/internal/animation"
	"github.com/1broseidon/treetile/internal/command"
)

// Margins represents padding kept free on each side of a display.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion defines which part of a display the layout tiles.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent"`      // 0-100
	YPercent      int        `yaml:"y_percent"`      // 0-100
	WidthPercent  int        `yaml:"width_percent"`  // 0-100
	HeightPercent int        `yaml:"height_percent"` // 0-100
}

// Theme holds window decoration settings.
type Theme struct {
	// BorderSize is reserved on every side of a tiled window.
	BorderSize    int    `yaml:"border_size"`
	ActiveColor   string `yaml:"active_color"`
	InactiveColor string `yaml:"inactive_color"`
}

// Animation configures window transitions.
type Animation struct {
	// DurationMS of 0 disables animation.
	DurationMS int    `yaml:"duration_ms"`
	Easing     string `yaml:"easing"`
}

const (
	PointerFocusOnHover = "on_hover"
	PointerFocusOnClick = "on_click"
)

// Global holds daemon behaviour settings.
type Global struct {
	PointerFocusType string `yaml:"pointer_focus_type"`
	// DefaultDirection is where new windows open relative to the focused one.
	DefaultDirection string `yaml:"default_direction"`
	FrameRate        int    `yaml:"frame_rate"`
	SyncIntervalMS   int    `yaml:"sync_interval_ms"`
}

// Config is the effective configuration.
type Config struct {
	LogLevel       string            `yaml:"log_level"`
	Theme          Theme             `yaml:"theme"`
	Animation      Animation         `yaml:"animation"`
	Global         Global            `yaml:"global"`
	ScreenPadding  Margins           `yaml:"screen_padding"`
	TileRegion     TileRegion        `yaml:"tile_region"`
	ManagedClasses []string          `yaml:"managed_classes"`
	IgnoredClasses []string          `yaml:"ignored_classes"`
	Keybindings    map[string]string `yaml:"keybindings"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Theme: Theme{
			BorderSize:    7,
			ActiveColor:   "#F59311",
			InactiveColor: "#29312E",
		},
		Animation: Animation{
			DurationMS: int(animation.DefaultDuration / time.Millisecond),
			Easing:     animation.DefaultEasingName,
		},
		Global: Global{
			PointerFocusType: PointerFocusOnClick,
			DefaultDirection: "right",
			FrameRate:        60,
			SyncIntervalMS:   1000,
		},
		TileRegion:     TileRegion{Type: RegionFull},
		ManagedClasses: []string{},
		IgnoredClasses: defaultIgnoredClasses(),
		Keybindings:    defaultKeybindings(),
	}
}

func defaultIgnoredClasses() []string {
	return []string{"Rofi", "dmenu", "Dunst", "Polybar", "Plank"}
}

func defaultKeybindings() map[string]string {
	out := map[string]string{
		"Mod4-f":       "toggle_fullscreen",
		"Mod4-q":       "close_active_window",
		"Mod4-Tab":     "move_focus_to_next_window",
		"Mod4-Shift-r": "reload",
	}
	for _, dir := range []string{"Up", "Down", "Left", "Right"} {
		out["Mod4-"+dir] = "focus_" + strings.ToLower(dir)
		out["Mod4-Shift-"+dir] = "move_active_window_" + strings.ToLower(dir)
	}
	return out
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "treetile", "config.yaml"), nil
}

// Save writes the configuration to path as YAML.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original file.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// AnimationOptions resolves the animation section.
func (c *Config) AnimationOptions() (animation.Options, error) {
	easing, err := animation.EasingByName(c.Animation.Easing)
	if err != nil {
		return animation.Options{}, err
	}
	return animation.Options{
		Duration: time.Duration(c.Animation.DurationMS) * time.Millisecond,
		Easing:   easing,
	}, nil
}

// FrameInterval is the time between animation frames.
func (c *Config) FrameInterval() time.Duration {
	if c.Global.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Global.FrameRate)
}

// SyncInterval is the time between window list reconciliations.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Global.SyncIntervalMS) * time.Millisecond
}

// Bindings parses every keybinding. Keys are returned sorted.
func (c *Config) Bindings() ([]string, map[string]command.Command, error) {
	keys := make([]string, 0, len(c.Keybindings))
	out := make(map[string]command.Command, len(c.Keybindings))
	for key, raw := range c.Keybindings {
		cmd, err := command.Parse(raw)
		if err != nil {
			return nil, nil, &ValidationError{Path: "keybindings." + key, Err: err}
		}
		keys = append(keys, key)
		out[key] = cmd
	}
	sort.Strings(keys)
	return keys, out, nil
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Theme.BorderSize < 0 {
		return &ValidationError{Path: "theme.border_size", Err: fmt.Errorf("border_size must be >= 0")}
	}
	if !hexColor.MatchString(c.Theme.ActiveColor) {
		return &ValidationError{Path: "theme.active_color", Err: fmt.Errorf("active_color must look like #RRGGBB")}
	}
	if !hexColor.MatchString(c.Theme.InactiveColor) {
		return &ValidationError{Path: "theme.inactive_color", Err: fmt.Errorf("inactive_color must look like #RRGGBB")}
	}
	if c.Animation.DurationMS < 0 {
		return &ValidationError{Path: "animation.duration_ms", Err: fmt.Errorf("duration_ms must be >= 0")}
	}
	if _, err := animation.EasingByName(c.Animation.Easing); err != nil {
		return &ValidationError{Path: "animation.easing", Err: err}
	}
	switch c.Global.PointerFocusType {
	case PointerFocusOnHover, PointerFocusOnClick:
	default:
		return &ValidationError{Path: "global.pointer_focus_type", Err: fmt.Errorf("pointer_focus_type must be one of: on_hover, on_click")}
	}
	switch c.Global.DefaultDirection {
	case "up", "down", "left", "right":
	default:
		return &ValidationError{Path: "global.default_direction", Err: fmt.Errorf("default_direction must be one of: up, down, left, right")}
	}
	if c.Global.FrameRate < 1 || c.Global.FrameRate > 240 {
		return &ValidationError{Path: "global.frame_rate", Err: fmt.Errorf("frame_rate must be between 1 and 240")}
	}
	if c.Global.SyncIntervalMS < 100 {
		return &ValidationError{Path: "global.sync_interval_ms", Err: fmt.Errorf("sync_interval_ms must be >= 100")}
	}
	if c.ScreenPadding.Top < 0 || c.ScreenPadding.Bottom < 0 || c.ScreenPadding.Left < 0 || c.ScreenPadding.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}
	if err := validateRegion(c.TileRegion); err != nil {
		return &ValidationError{Path: "tile_region", Err: err}
	}
	for _, class := range append(append([]string{}, c.ManagedClasses...), c.IgnoredClasses...) {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "managed_classes", Err: fmt.Errorf("window class names must not be empty")}
		}
	}
	if _, _, err := c.Bindings(); err != nil {
		return err
	}
	return nil
}

func validateRegion(region TileRegion) error {
	switch region.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
		// ok
	case RegionCustom:
		if region.XPercent < 0 || region.XPercent > 100 {
			return fmt.Errorf("x_percent must be between 0 and 100")
		}
		if region.YPercent < 0 || region.YPercent > 100 {
			return fmt.Errorf("y_percent must be between 0 and 100")
		}
		if region.WidthPercent <= 0 || region.WidthPercent > 100 {
			return fmt.Errorf("width_percent must be between 1 and 100")
		}
		if region.HeightPercent <= 0 || region.HeightPercent > 100 {
			return fmt.Errorf("height_percent must be between 1 and 100")
		}
		if region.XPercent+region.WidthPercent > 100 {
			return fmt.Errorf("x_percent + width_percent must be <= 100")
		}
		if region.YPercent+region.HeightPercent > 100 {
			return fmt.Errorf("y_percent + height_percent must be <= 100")
		}
	default:
		return fmt.Errorf("invalid region type %q", region.Type)
	}
	return nil
}
