// Package render groups the layout engines and the output sinks.
//
//   - [funnel]: pyramid and funnel bands with outside-label overlap
//     correction and center shifting
//   - [timeline]: range and moment points stacked around an axis
//   - [sink]: SVG, PNG and JSON output of a drawn surface
//
// Engines are pure: they take rows through a data.Cursor and pixel bounds,
// and return a result that can draw itself onto a surface.Surface. They
// never log; unusable settings are reported through a style.Reporter.
//
// [funnel]: github.com/matzehuels/chartlayout/pkg/render/funnel
// [timeline]: github.com/matzehuels/chartlayout/pkg/render/timeline
// [sink]: github.com/matzehuels/chartlayout/pkg/render/sink
package render
