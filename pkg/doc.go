// Package pkg provides the libraries behind chartlayout.
//
// # Overview
//
// Chartlayout computes the geometry of funnel, pyramid and timeline charts.
// The pkg directory is organized into four areas:
//
//  1. Engines: [render/funnel], [render/timeline] and their inputs
//     ([data], [style], [text], [geom])
//  2. Output: [surface] and [render/sink]
//  3. Orchestration: [chartdoc] documents and the [pipeline] runner
//  4. Infrastructure: [cache], [store], [server], [observability]
//
// # Architecture
//
//	chart document (JSON, YAML, TOML) + rows (inline, CSV, JSON, YAML, XLSX)
//	         ↓
//	    [pipeline] LoadTables
//	         ↓
//	    [render/funnel] or [render/timeline] layout pass
//	         ↓
//	    [surface] drawing, [render/sink] SVG/PNG/JSON
//
// # Quick Start
//
//	chart, err := chartdoc.ReadChartFile("checkout.yaml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Chart:   chart,
//	    BaseDir: ".",
//	    Formats: []string{"svg"},
//	})
//	os.WriteFile("checkout.svg", res.Artifacts["svg"], 0o644)
//
// [render/funnel]: github.com/matzehuels/chartlayout/pkg/render/funnel
// [render/timeline]: github.com/matzehuels/chartlayout/pkg/render/timeline
// [render/sink]: github.com/matzehuels/chartlayout/pkg/render/sink
// [data]: github.com/matzehuels/chartlayout/pkg/data
// [style]: github.com/matzehuels/chartlayout/pkg/style
// [text]: github.com/matzehuels/chartlayout/pkg/text
// [geom]: github.com/matzehuels/chartlayout/pkg/geom
// [surface]: github.com/matzehuels/chartlayout/pkg/surface
// [chartdoc]: github.com/matzehuels/chartlayout/pkg/chartdoc
// [pipeline]: github.com/matzehuels/chartlayout/pkg/pipeline
// [cache]: github.com/matzehuels/chartlayout/pkg/cache
// [store]: github.com/matzehuels/chartlayout/pkg/store
// [server]: github.com/matzehuels/chartlayout/pkg/server
// [observability]: github.com/matzehuels/chartlayout/pkg/observability
package pkg
