// Package sink turns a drawn [surface.Surface] into an output format.
//
// Layout engines draw onto a surface (layers of pooled paths and text
// runs). A sink walks the layers in z order and writes:
//
//   - SVG: one <g> per layer, clip paths in <defs>
//   - PNG: rasterized with fogleman/gg, labels set in Go Regular
//   - JSON: the scene graph itself, for external renderers
//
// Basic usage:
//
//	s := surface.New(800, 600)
//	result.Draw(s, opts.ConnectorStroke)
//	svg := sink.RenderSVG(s, sink.WithBackground("#ffffff"))
//
// [surface.Surface]: github.com/matzehuels/chartlayout/pkg/surface.Surface
package sink
