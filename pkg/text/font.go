package text

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/chartlayout/pkg/fonts"
)

// FontMeasurer measures text with glyph advances of an OpenType font.
// Faces are created lazily per font size and reused.
type FontMeasurer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFontMeasurer measures with f, or with Go Regular when f is nil.
func NewFontMeasurer(f *opentype.Font) (*FontMeasurer, error) {
	if f == nil {
		var err error
		if f, err = fonts.Regular(); err != nil {
			return nil, err
		}
	}
	return &FontMeasurer{font: f, faces: make(map[float64]font.Face)}, nil
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(text string, st Style) Size {
	st = st.WithDefaults()
	face := m.face(st.FontSize)
	if face == nil {
		return Estimator{}.Measure(text, st)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return layoutBlock(text, st, func(line string) float64 {
		return float64(font.MeasureString(face, line)) / 64
	})
}

func (m *FontMeasurer) face(size float64) font.Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	m.faces[size] = f
	return f
}

// Close releases all cached faces.
func (m *FontMeasurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for size, f := range m.faces {
		_ = f.Close()
		delete(m.faces, size)
	}
	return nil
}
