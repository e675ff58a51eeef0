package geom

import "testing"

func TestContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"origin", 10, 20, true},
		{"inside", 60, 40, true},
		{"right edge exclusive", 110, 40, false},
		{"bottom edge exclusive", 60, 70, false},
		{"left of rect", 9, 40, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Fatalf("Contains(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 50, Y: 50, Width: 100, Height: 100}
	if !a.Intersects(b) {
		t.Fatal("expected overlap")
	}
	want := Rect{X: 50, Y: 50, Width: 50, Height: 50}
	if got := a.Intersect(b); got != want {
		t.Fatalf("Intersect = %v, want %v", got, want)
	}

	adjacent := Rect{X: 100, Y: 0, Width: 10, Height: 10}
	if a.Intersects(adjacent) {
		t.Fatal("adjacent rects must not intersect")
	}
	if got := a.Intersect(adjacent); got != (Rect{}) {
		t.Fatalf("Intersect of adjacent = %v, want zero", got)
	}
}

func TestContentArea(t *testing.T) {
	tests := []struct {
		name   string
		in     Rect
		border int
		want   Rect
	}{
		{"no border", Rect{0, 0, 100, 80}, 0, Rect{0, 0, 100, 80}},
		{"border subtracted symmetrically", Rect{10, 10, 100, 80}, 7, Rect{17, 17, 86, 66}},
		{"border too wide is dropped", Rect{0, 0, 10, 80}, 7, Rect{0, 0, 10, 80}},
		{"border too tall is dropped", Rect{0, 0, 100, 12}, 7, Rect{0, 0, 100, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.ContentArea(tt.border); got != tt.want {
				t.Fatalf("ContentArea = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsetClampsToOnePixel(t *testing.T) {
	got := Rect{0, 0, 10, 10}.Inset(20, 0, 0, 20)
	if got.Width != 1 || got.Height != 1 {
		t.Fatalf("Inset = %v, want 1x1", got)
	}
}
