package geom

import (
	"math"
	"testing"
)

func TestRectEdges(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Width: 30, Height: 40}

	if got := r.Right(); got != 40 {
		t.Errorf("Right() = %v, want %v", got, 40)
	}
	if got := r.Bottom(); got != 60 {
		t.Errorf("Bottom() = %v, want %v", got, 60)
	}
	if got := r.CenterX(); got != 25 {
		t.Errorf("CenterX() = %v, want %v", got, 25)
	}
	if got := r.CenterY(); got != 40 {
		t.Errorf("CenterY() = %v, want %v", got, 40)
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", Rect{Left: 5, Top: 5, Width: 10, Height: 10}, true},
		{"touching edge", Rect{Left: 10, Top: 0, Width: 10, Height: 10}, false},
		{"apart", Rect{Left: 20, Top: 20, Width: 1, Height: 1}, false},
		{"contained", Rect{Left: 2, Top: 2, Width: 2, Height: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	got := Rect{Left: 0, Top: 0, Width: 10, Height: 10}.Union(Rect{Left: 5, Top: -5, Width: 10, Height: 5})
	want := Rect{Left: 0, Top: -5, Width: 15, Height: 15}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

func TestFromCoordinateBox(t *testing.T) {
	tests := []struct {
		name   string
		coords []float64
		want   Rect
	}{
		{"axis aligned", Rect{Left: 1, Top: 2, Width: 3, Height: 4}.Corners(), Rect{Left: 1, Top: 2, Width: 3, Height: 4}},
		{"rotated diamond", []float64{5, 0, 10, 5, 5, 10, 0, 5}, Rect{Left: 0, Top: 0, Width: 10, Height: 10}},
		{"single point", []float64{3, 4}, Rect{Left: 3, Top: 4}},
		{"empty", nil, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromCoordinateBox(tt.coords); got != tt.want {
				t.Errorf("FromCoordinateBox() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		num    float64
		digits int
		want   float64
	}{
		{123.456, 2, 123.46},
		{123.454, 2, 123.45},
		{-2.5, 0, -2},
		{2.5, 0, 3},
		{0, 2, 0},
		{math.NaN(), 2, 0},
		{33.333333333, 2, 33.33},
	}
	for _, tt := range tests {
		if got := Round(tt.num, tt.digits); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.num, tt.digits, got, tt.want)
		}
	}
}

func TestIsPointOnLine(t *testing.T) {
	tests := []struct {
		name   string
		p3x    float64
		p3y    float64
		expect int
	}{
		{"on line", 5, 0, 0},
		{"below in screen space", 5, 5, 1},
		{"above in screen space", 5, -5, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPointOnLine(0, 0, 10, 0, tt.p3x, tt.p3y); got != tt.expect {
				t.Errorf("IsPointOnLine() = %v, want %v", got, tt.expect)
			}
		})
	}
}
