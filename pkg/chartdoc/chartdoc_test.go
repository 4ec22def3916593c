package chartdoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/chartlayout/pkg/data"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/geom"
	"github.com/matzehuels/chartlayout/pkg/render/funnel"
	"github.com/matzehuels/chartlayout/pkg/render/timeline"
	"github.com/matzehuels/chartlayout/pkg/style"
)

const funnelYAML = `
kind: funnel
width: 600
height: 400
data:
  rows:
    - {name: Visits, value: 100}
    - {name: Leads, value: 40}
funnel:
  neckHeight: 30%
  labelPosition: outside-right
`

const timelineTOML = `
kind = "timeline"

[[timeline.series]]
kind = "range"
height = "10%"
direction = "odd-even"

[[timeline.series.data.rows]]
name = "Design"
start = "2024-01-01"
end = "2024-02-01"

[[timeline.series]]
kind = "moment"

[[timeline.series.data.rows]]
x = "2024-01-15"
value = "Review"
`

func TestDecodeFunnelYAML(t *testing.T) {
	c, err := DecodeChart([]byte(funnelYAML), FormatYAML)
	if err != nil {
		t.Fatalf("DecodeChart() error = %v", err)
	}
	if c.Funnel.Kind != funnel.KindFunnel {
		t.Errorf("funnel kind = %q, want funnel", c.Funnel.Kind)
	}
	if c.Funnel.NeckHeight != style.Pct(30) {
		t.Errorf("NeckHeight = %+v, want 30%%", c.Funnel.NeckHeight)
	}
	if c.Funnel.LabelPosition != funnel.PositionOutsideRight {
		t.Errorf("LabelPosition = %q", c.Funnel.LabelPosition)
	}
	tbl, err := c.Data.Table("")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 || data.Float(tbl.Rows[1]["value"]) != 40 {
		t.Errorf("rows = %v", tbl.Rows)
	}
}

func TestDecodeTimelineTOML(t *testing.T) {
	c, err := DecodeChart([]byte(timelineTOML), FormatTOML)
	if err != nil {
		t.Fatalf("DecodeChart() error = %v", err)
	}
	if len(c.Timeline.Series) != 2 {
		t.Fatalf("series = %d, want 2", len(c.Timeline.Series))
	}
	opts := c.Timeline.Options()
	if opts.Series[0].Height != style.Pct(10) {
		t.Errorf("height = %+v, want 10%%", opts.Series[0].Height)
	}
	if opts.Series[0].Direction != timeline.DirectionOddEven {
		t.Errorf("direction = %q, want odd-even", opts.Series[0].Direction)
	}
	if opts.Series[1].Kind != timeline.KindMoment {
		t.Errorf("kind = %q, want moment", opts.Series[1].Kind)
	}
	if got := c.Timeline.Series[1].Data.Rows[0]["value"]; got != "Review" {
		t.Errorf("moment value = %v, want Review", got)
	}
}

func TestDecodeChartErrors(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		format string
		code   errors.Code
	}{
		{"unknown kind", `{"kind": "pie"}`, FormatJSON, errors.ErrCodeInvalidChartType},
		{"unknown field", `{"kind": "funnel", "colour": "red"}`, FormatJSON, errors.ErrCodeInvalidSetting},
		{"kind mismatch", `{"kind": "funnel", "funnel": {"kind": "pyramid"}}`, FormatJSON, errors.ErrCodeInvalidSetting},
		{"wrong settings", `{"kind": "pyramid", "timeline": {"series": []}}`, FormatJSON, errors.ErrCodeInvalidSetting},
		{"bad format", `{}`, "xml", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeChart([]byte(tt.raw), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("DecodeChart() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEncodeChartReportsFunctions(t *testing.T) {
	c := &Chart{Kind: KindPyramid, Funnel: &funnel.Options{
		Kind:      funnel.KindPyramid,
		BaseWidth: style.Pct(80),
		Fill:      style.Color{Func: func(style.Context) string { return "#000" }},
	}}
	for _, format := range []string{FormatJSON, FormatYAML, FormatTOML} {
		rep := &style.Collector{}
		raw, err := EncodeChart(c, format, rep)
		if err != nil {
			t.Fatalf("EncodeChart(%s) error = %v", format, err)
		}
		if rep.Len() != 1 {
			t.Errorf("%s: warnings = %d, want 1", format, rep.Len())
		}
		back, err := DecodeChart(raw, format)
		if err != nil {
			t.Fatalf("%s: DecodeChart() error = %v\n%s", format, err, raw)
		}
		if back.Funnel.BaseWidth != style.Pct(80) {
			t.Errorf("%s: BaseWidth = %+v, want 80%%", format, back.Funnel.BaseWidth)
		}
	}
}

func TestReadChartFileWithDataFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "rows.csv"), []byte("name,value\nA,3\nB,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "chart.json")
	if err := os.WriteFile(path, []byte(`{"kind": "pyramid", "data": {"file": "rows.csv"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := ReadChartFile(path)
	if err != nil {
		t.Fatalf("ReadChartFile() error = %v", err)
	}
	if c.Inline() {
		t.Error("Inline() = true for a file dataset")
	}
	tbl, err := c.Data.Table(dir)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("rows = %d, want 2", tbl.Len())
	}

	if _, err := ReadChartFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}
	if _, err := ReadChartFile(filepath.Join(dir, "chart.ini")); !errors.Is(err, errors.ErrCodeUnsupportedInput) {
		t.Errorf("unknown extension error = %v, want UNSUPPORTED_INPUT", err)
	}
}

func TestFromFunnel(t *testing.T) {
	e, err := funnel.New(funnel.Options{Kind: funnel.KindFunnel})
	if err != nil {
		t.Fatal(err)
	}
	tbl := data.NewTable(data.Row{"name": "A", "value": 3.0}, data.Row{"name": "B", "value": 1.0})
	r, err := e.Layout(tbl.Iterator(), geom.Rect{Width: 400, Height: 300})
	if err != nil {
		t.Fatal(err)
	}
	l := FromFunnel(r)
	if l.Kind != KindFunnel || len(l.Points) != 2 {
		t.Fatalf("layout = %+v", l)
	}
	if got := len(l.Points[0].Polygon); got < 4 {
		t.Errorf("polygon corners = %d, want at least 4", got)
	}
	if l.Points[0].Label == nil || l.Points[0].Label.Text != "A" {
		t.Errorf("label = %+v, want text A", l.Points[0].Label)
	}
	if len(l.Points[0].Label.Connector) != 2 {
		t.Errorf("connector = %v, want 2 points", l.Points[0].Label.Connector)
	}
}

func TestLayoutJSONRoundTrip(t *testing.T) {
	e, err := timeline.New(timeline.Options{Series: []timeline.Series{{Kind: timeline.KindRange}}})
	if err != nil {
		t.Fatal(err)
	}
	tbl := data.NewTable(data.Row{"name": "A", "start": 0.0, "end": 10.0})
	r, err := e.Layout([]data.Cursor{tbl.Iterator()}, geom.Rect{Width: 300, Height: 200})
	if err != nil {
		t.Fatal(err)
	}
	l := FromTimeline(r)
	l.ID = "abc"
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatal(err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if *back.TotalRange != *l.TotalRange || back.Series[0].Points[0].Bounds != l.Series[0].Points[0].Bounds {
		t.Errorf("round trip changed the layout: %+v", back)
	}

	_, err = UnmarshalLayout([]byte(`{"kind": "timeline"}`))
	if err == nil || !strings.Contains(err.Error(), "total range") {
		t.Errorf("UnmarshalLayout() = %v, want total range error", err)
	}
}
