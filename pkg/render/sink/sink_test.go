package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/surface"
)

func scene() *surface.Surface {
	s := surface.New(100, 50)
	shapes := s.Root.Child("points")
	shapes.ZIndex = 10
	shapes.SetClip(geom.Rect{Width: 100, Height: 50})
	p := shapes.Path(0)
	p.Fill = "#ff0000"
	p.MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).Close()

	top := shapes.Path(1)
	top.Fill = "#00ff00"
	top.ZIndex = -1
	top.MoveTo(20, 20).LineTo(30.5, 20)

	labels := s.Root.Child("labels")
	labels.ZIndex = 20
	labels.AddText(surface.Text{Content: "a < b", Box: geom.Rect{Left: 40, Top: 10, Width: 30, Height: 16}, FontSize: 12})
	return s
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(scene(), WithBackground("#fff")))

	for _, want := range []string{
		`viewBox="0 0 100 50"`,
		`<clipPath id="clip-points"><rect x="0" y="0" width="100" height="50"/></clipPath>`,
		`<path d="M0,0 L10,0 L10,10 Z" fill="#ff0000" stroke="none"/>`,
		`<path d="M20,20 L30.5,20" fill="#00ff00" stroke="none"/>`,
		`a &lt; b</text>`,
		`x="55" y="18"`,
		`fill="#fff"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q\n%s", want, out)
		}
	}
	if strings.Index(out, `id="points"`) > strings.Index(out, `id="labels"`) {
		t.Error("points layer should come before labels")
	}
	if strings.Index(out, "M20,20") > strings.Index(out, "M0,0") {
		t.Error("lower z-index path should be painted first")
	}
}

func TestRenderSVGMultiline(t *testing.T) {
	s := surface.New(10, 10)
	s.Root.AddText(surface.Text{Content: "a\nb", Box: geom.Rect{Width: 10, Height: 10}})
	out := string(RenderSVG(s))
	if got := strings.Count(out, "<tspan"); got != 2 {
		t.Errorf("tspans = %d, want 2", got)
	}
}

func TestPathData(t *testing.T) {
	p := &surface.Path{}
	p.MoveTo(1.23456, -2).LineTo(3, 4.0004).Close()
	if got, want := PathData(p), "M1.235,-2 L3,4 Z"; got != want {
		t.Errorf("PathData() = %q, want %q", got, want)
	}
}

func TestRenderJSON(t *testing.T) {
	raw, err := RenderJSON(scene(), WithKind("funnel"), WithCompact())
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	var doc jsonScene
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Kind != "funnel" || doc.Width != 100 {
		t.Errorf("header = %q %v, want funnel 100", doc.Kind, doc.Width)
	}
	if len(doc.Root.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(doc.Root.Children))
	}
	pts := doc.Root.Children[0]
	if pts.ID != "points" || len(pts.Paths) != 2 || pts.Clip == nil {
		t.Errorf("points layer = %+v", pts)
	}
	if pts.Paths[0].D != "M20,20 L30.5,20" {
		t.Errorf("first path = %q, want the lower z-index one", pts.Paths[0].D)
	}
	if got := doc.Root.Children[1].Texts[0].Content; got != "a < b" {
		t.Errorf("text = %q, want %q", got, "a < b")
	}
}

func TestRenderPNG(t *testing.T) {
	raw, err := RenderPNG(scene(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
	r, g, b, _ := img.At(8, 2).RGBA()
	if r>>8 != 0xff || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("pixel (8,2) = %x %x %x, want red", r>>8, g>>8, b>>8)
	}

	if _, err := RenderPNG(scene(), WithScale(0)); err == nil {
		t.Error("RenderPNG() with zero scale should fail")
	}
}
