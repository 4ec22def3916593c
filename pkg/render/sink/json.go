package sink

import (
	"encoding/json"

	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/surface"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
	kind    string
}

// WithCompact writes the document without indentation.
func WithCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithKind records the chart kind (e.g. "funnel", "timeline") in the
// document.
func WithKind(kind string) JSONOption { return func(r *jsonRenderer) { r.kind = kind } }

type jsonScene struct {
	Kind   string    `json:"kind,omitempty"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Root   jsonLayer `json:"root"`
}

type jsonLayer struct {
	ID       string      `json:"id"`
	ZIndex   float64     `json:"z_index,omitempty"`
	Clip     *geom.Rect  `json:"clip,omitempty"`
	Paths    []jsonPath  `json:"paths,omitempty"`
	Texts    []jsonText  `json:"texts,omitempty"`
	Children []jsonLayer `json:"children,omitempty"`
}

type jsonPath struct {
	D           string  `json:"d"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Class       string  `json:"class,omitempty"`
}

type jsonText struct {
	Content  string    `json:"content"`
	Box      geom.Rect `json:"box"`
	FontSize float64   `json:"font_size,omitempty"`
	Rotation float64   `json:"rotation,omitempty"`
	Color    string    `json:"color,omitempty"`
	Class    string    `json:"class,omitempty"`
}

// RenderJSON exports the scene graph of s: layers in z order, their paths
// as SVG path data and their text runs.
func RenderJSON(s *surface.Surface, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonScene{Kind: r.kind, Width: s.Width, Height: s.Height, Root: buildJSONLayer(s.Root)}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONLayer(l *surface.Layer) jsonLayer {
	jl := jsonLayer{ID: l.ID, ZIndex: l.ZIndex, Clip: l.Clip}
	for _, p := range sortedPaths(l) {
		jl.Paths = append(jl.Paths, jsonPath{
			D:           PathData(p),
			Fill:        p.Fill,
			Stroke:      p.Stroke,
			StrokeWidth: p.StrokeWidth,
			Class:       p.Class,
		})
	}
	for _, t := range l.Texts() {
		jl.Texts = append(jl.Texts, jsonText(t))
	}
	for _, c := range l.Children() {
		jl.Children = append(jl.Children, buildJSONLayer(c))
	}
	return jl
}
