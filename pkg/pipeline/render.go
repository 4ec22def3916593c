package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/observability"
	"github.com/matzehuels/chartlayout/pkg/render/sink"
	"github.com/matzehuels/chartlayout/pkg/surface"
)

// Render draws sc once and writes it in every requested format.
func Render(ctx context.Context, sc *Scene, opts Options) (map[string][]byte, error) {
	s := sc.Draw(opts.Scroll)
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		out, err := renderFormat(ctx, s, sc.Kind, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = out
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, s *surface.Surface, kind, format string, opts Options) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	var (
		out []byte
		err error
	)
	switch format {
	case FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithBackground(opts.Background)}
		if opts.Hover {
			svgOpts = append(svgOpts, sink.WithHover())
		}
		out = sink.RenderSVG(s, svgOpts...)
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
		if opts.Background != "" {
			pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
		}
		out, err = sink.RenderPNG(s, pngOpts...)
	case FormatJSON:
		out, err = sink.RenderJSON(s, sink.WithKind(kind))
	default:
		err = errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil && errors.GetCode(err) == "" {
		err = errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
	hooks.OnRenderComplete(ctx, format, len(out), time.Since(start), err)
	return out, err
}
