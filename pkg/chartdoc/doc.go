// Package chartdoc provides the serialized forms of charts and layouts.
//
// This package sits at the boundary between the layout engines and the
// outside world (files, the HTTP API, the cache and the store):
//
//   - [Chart]: a chart document. Kind, size, rows and engine settings.
//     Authored as JSON, YAML or TOML.
//   - [Layout]: the outcome of a layout pass in a flat, storable shape,
//     with json and bson tags.
//
// # Chart documents
//
// A funnel document carries its rows inline or names a data file:
//
//	kind: funnel
//	width: 600
//	height: 400
//	data:
//	  file: leads.csv
//	funnel:
//	  neckHeight: 30%
//	  labelPosition: outside-right
//
// A timeline document lists its series, each with its own rows:
//
//	kind: timeline
//	timeline:
//	  series:
//	    - kind: range
//	      data:
//	        rows:
//	          - {name: Design, start: 2024-01-01, end: 2024-02-15}
//
// Color resolver functions (style.Color.Func) only exist in code. They are
// dropped when a chart is encoded and the reporter is told about it.
package chartdoc
