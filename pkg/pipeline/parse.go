package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/data"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/observability"
)

// Tables holds the rows of a chart: one table for a funnel or pyramid,
// one per series for a timeline.
type Tables struct {
	Funnel *data.Table   `json:"funnel,omitempty"`
	Series []*data.Table `json:"series,omitempty"`
}

// Rows returns the total row count.
func (t Tables) Rows() int {
	n := 0
	if t.Funnel != nil {
		n += t.Funnel.Len()
	}
	for _, s := range t.Series {
		n += s.Len()
	}
	return n
}

// LoadTables reads every dataset of chart. Relative file paths resolve
// against baseDir.
func LoadTables(ctx context.Context, chart *chartdoc.Chart, baseDir string) (Tables, error) {
	var t Tables
	if chart.Kind != chartdoc.KindTimeline {
		tbl, err := loadDataset(ctx, chart.Data, baseDir)
		if err != nil {
			return Tables{}, err
		}
		t.Funnel = tbl
		return t, nil
	}
	if chart.Timeline == nil {
		return t, nil
	}
	t.Series = make([]*data.Table, len(chart.Timeline.Series))
	for i, s := range chart.Timeline.Series {
		tbl, err := loadDataset(ctx, s.Data, baseDir)
		if err != nil {
			return Tables{}, errors.Wrap(codeOf(err), err, "series %d", i)
		}
		t.Series[i] = tbl
	}
	return t, nil
}

func loadDataset(ctx context.Context, d chartdoc.Dataset, baseDir string) (*data.Table, error) {
	source := d.File
	if source == "" {
		source = "inline"
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	tbl, err := d.Table(baseDir)
	rows := 0
	if tbl != nil {
		rows = tbl.Len()
	}
	hooks.OnLoadComplete(ctx, source, rows, time.Since(start), err)
	return tbl, err
}

// DocumentHash hashes a chart document together with its loaded rows, so
// edits to a referenced data file change the hash too.
func DocumentHash(chart *chartdoc.Chart, tables Tables) (string, error) {
	raw, err := json.Marshal(struct {
		Chart  *chartdoc.Chart `json:"chart"`
		Tables Tables          `json:"tables"`
	}{chart, tables})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidData, err, "hash chart document")
	}
	return cache.Hash(raw), nil
}
