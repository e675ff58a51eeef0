package tiling

import (
	"testing"

	"github.com/1broseidon/treetile/internal/config"
	"github.com/1broseidon/treetile/internal/geom"
)

func TestApplyRegion(t *testing.T) {
	monitor := geom.Rect{X: 100, Y: 0, Width: 1001, Height: 800}
	tests := []struct {
		name   string
		region config.TileRegion
		want   geom.Rect
	}{
		{"full", config.TileRegion{Type: config.RegionFull}, monitor},
		{"left", config.TileRegion{Type: config.RegionLeftHalf}, geom.Rect{X: 100, Width: 500, Height: 800}},
		{"right takes the odd pixel", config.TileRegion{Type: config.RegionRightHalf}, geom.Rect{X: 600, Width: 501, Height: 800}},
		{"top", config.TileRegion{Type: config.RegionTopHalf}, geom.Rect{X: 100, Width: 1001, Height: 400}},
		{"bottom", config.TileRegion{Type: config.RegionBottomHalf}, geom.Rect{X: 100, Y: 400, Width: 1001, Height: 400}},
		{
			"custom",
			config.TileRegion{Type: config.RegionCustom, XPercent: 10, YPercent: 50, WidthPercent: 50, HeightPercent: 50},
			geom.Rect{X: 200, Y: 400, Width: 500, Height: 400},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyRegion(monitor, tt.region); got != tt.want {
				t.Fatalf("ApplyRegion = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRootArea(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ScreenPadding = config.Margins{Top: 30, Left: 10, Right: 10}
	got, err := RootArea(geom.Rect{Width: 1920, Height: 1080}, cfg)
	if err != nil {
		t.Fatalf("RootArea: %v", err)
	}
	if want := (geom.Rect{X: 10, Y: 30, Width: 1900, Height: 1050}); got != want {
		t.Fatalf("RootArea = %v, want %v", got, want)
	}

	cfg.ScreenPadding = config.Margins{Left: 1000, Right: 1000}
	if _, err := RootArea(geom.Rect{Width: 1920, Height: 1080}, cfg); err == nil {
		t.Fatalf("expected error when padding consumes the display")
	}
}
