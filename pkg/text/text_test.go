package text

import (
	"math"
	"testing"
)

func TestEstimatorMeasure(t *testing.T) {
	tests := []struct {
		name string
		text string
		st   Style
		want Size
	}{
		{
			name: "single line",
			text: "abcd",
			st:   Style{FontSize: 10, LineHeight: 1},
			want: Size{Width: 22, Height: 10},
		},
		{
			name: "two lines takes widest",
			text: "ab\nabcd",
			st:   Style{FontSize: 10, LineHeight: 1},
			want: Size{Width: 22, Height: 20},
		},
		{
			name: "padding",
			text: "ab",
			st:   Style{FontSize: 10, LineHeight: 1, Padding: Padding{Top: 1, Right: 2, Bottom: 3, Left: 4}},
			want: Size{Width: 17, Height: 14},
		},
		{
			name: "fixed width wraps",
			text: "abcdefgh",
			st:   Style{FontSize: 10, LineHeight: 1, Width: 22},
			want: Size{Width: 22, Height: 20},
		},
		{
			name: "fixed width wider than text",
			text: "ab",
			st:   Style{FontSize: 10, LineHeight: 1, Width: 100},
			want: Size{Width: 100, Height: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimator{}.Measure(tt.text, tt.st)
			if math.Abs(got.Width-tt.want.Width) > 1e-9 || math.Abs(got.Height-tt.want.Height) > 1e-9 {
				t.Errorf("Measure() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStyleDefaults(t *testing.T) {
	st := Style{}.WithDefaults()
	if st.FontSize != DefaultFontSize {
		t.Errorf("FontSize = %v, want %v", st.FontSize, DefaultFontSize)
	}
	if st.LineHeight != DefaultLineHeight {
		t.Errorf("LineHeight = %v, want %v", st.LineHeight, DefaultLineHeight)
	}
}

func TestFontMeasurer(t *testing.T) {
	m, err := NewFontMeasurer(nil)
	if err != nil {
		t.Fatalf("NewFontMeasurer: %v", err)
	}
	defer m.Close()

	short := m.Measure("ii", Style{FontSize: 12})
	long := m.Measure("WWWWWW", Style{FontSize: 12})
	if short.Width <= 0 {
		t.Errorf("short width = %v, want > 0", short.Width)
	}
	if long.Width <= short.Width {
		t.Errorf("long width %v should exceed short width %v", long.Width, short.Width)
	}
	if again := m.Measure("WWWWWW", Style{FontSize: 12}); again != long {
		t.Errorf("Measure not deterministic: %+v vs %+v", again, long)
	}

	bigger := m.Measure("WWWWWW", Style{FontSize: 24})
	if bigger.Width <= long.Width {
		t.Errorf("24px width %v should exceed 12px width %v", bigger.Width, long.Width)
	}
}
