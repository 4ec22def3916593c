// Package fonts provides the font used to measure and rasterize labels.
//
// Labels are measured with the Go Regular face from golang.org/x/image so
// that widths computed during layout match what the PNG sink draws. The SVG
// sink references the same family by name with generic fallbacks.
package fonts

import (
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name of the embedded face.
const FontFamily = "Go"

// FallbackFontFamily lists CSS fallbacks for viewers without the Go fonts.
const FallbackFontFamily = `Go, 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the raw TrueType data of Go Regular.
func RegularTTF() []byte {
	return goregular.TTF
}

var (
	regular     *opentype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font. Parsing happens once.
func Regular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}
