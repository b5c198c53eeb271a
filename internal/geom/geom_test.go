package geom

import (
	"math"
	"testing"
)

func TestPointChebyshev(t *testing.T) {
	tests := []struct {
		name string
		p, q Point
		want float64
	}{
		{"same point", Point{X: 3, Y: 3}, Point{X: 3, Y: 3}, 0},
		{"x dominates", Point{X: 10, Y: 1}, Point{X: 0, Y: 0}, 10},
		{"y dominates negative", Point{X: 0, Y: -7}, Point{X: 1, Y: 0}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Chebyshev(tt.q); got != tt.want {
				t.Errorf("Chebyshev(%v, %v) = %v, want %v", tt.p, tt.q, got, tt.want)
			}
		})
	}
}

func TestSizeSanitize(t *testing.T) {
	s := Size{Width: math.NaN(), Height: -4}.Sanitize()
	if s.Width != 0 || s.Height != 0 {
		t.Fatalf("expected 0x0, got %vx%v", s.Width, s.Height)
	}
	s = Size{Width: math.Inf(1), Height: 12}.Sanitize()
	if s.Width != 0 || s.Height != 12 {
		t.Fatalf("expected 0x12, got %vx%v", s.Width, s.Height)
	}
}

func TestRectContainsIncludesEdges(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	for _, p := range []Point{{X: 10, Y: 10}, {X: 30, Y: 30}, {X: 20, Y: 15}} {
		if !r.Contains(p) {
			t.Errorf("expected %v inside %v", p, r)
		}
	}
	if r.Contains(Point{X: 31, Y: 15}) {
		t.Errorf("expected point outside right edge")
	}
}
