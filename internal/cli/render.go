package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// stdoutPath makes a single-format render write to standard output.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file, or base path when several formats are written
	formats    []string // output formats: "svg", "png", "json"
	width      float64  // chart width in pixels
	height     float64  // chart height in pixels
	measurer   string   // label measurement: "font" or "estimate"
	scale      float64  // PNG pixel density
	scroll     float64  // timeline vertical translation, clamped to the layout's offsets
	hover      bool     // emit hover styles in SVG
	background string   // background fill
	noCache    bool     // bypass the cache entirely
	refresh    bool     // recompute but still write the cache
}

// renderCommand creates the render command for laying out and drawing a chart.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [chart.yaml]",
		Short: "Render a chart document to SVG, PNG or JSON",
		Long: `Render a chart document to SVG, PNG or JSON.

With one format the result goes to --output (or <input>.<format>; "-" writes
to stdout). With several formats --output is used as the base path and each
format gets its own extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, c.Config.Format)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("width") {
				opts.width = 0
			}
			if !cmd.Flags().Changed("height") {
				opts.height = 0
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", pipeline.DefaultWidth, "chart width (overrides the document)")
	cmd.Flags().Float64Var(&opts.height, "height", pipeline.DefaultHeight, "chart height (overrides the document)")
	cmd.Flags().StringVar(&opts.measurer, "measurer", "", "label measurement: font (default), estimate")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel density")
	cmd.Flags().Float64Var(&opts.scroll, "scroll", 0, "timeline vertical scroll in pixels")
	cmd.Flags().BoolVar(&opts.hover, "hover", false, "include hover styles in SVG")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color (default transparent)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runRender lays out the chart and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	popts, err := c.chartOptions(input)
	if err != nil {
		return err
	}
	if opts.width != 0 {
		popts.Width = opts.width
	}
	if opts.height != 0 {
		popts.Height = opts.height
	}
	if opts.measurer != "" {
		popts.Measurer = opts.measurer
	}
	popts.Formats = opts.formats
	popts.Scale = opts.scale
	popts.Scroll = opts.scroll
	popts.Hover = opts.hover
	popts.Background = opts.background
	popts.Refresh = opts.refresh

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d rows", result.Stats.Rows))

	if len(opts.formats) == 1 {
		format := opts.formats[0]
		path := opts.output
		if path == "" {
			path = basePath("", input) + "." + format
		}
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(result.Artifacts[format]))
		if path != stdoutPath {
			printSuccess("Rendered %s", format)
			printFile(path)
		}
	} else {
		base := basePath(opts.output, input)
		for _, format := range opts.formats {
			path := base + "." + format
			if err := writeOutput(path, result.Artifacts[format]); err != nil {
				return err
			}
			logger.Debugf("Generated %s: %d bytes", format, len(result.Artifacts[format]))
		}
		printSuccess("Rendered %d formats", len(opts.formats))
		for _, format := range opts.formats {
			printFile(base + "." + format)
		}
	}
	printStats(result.Stats.Rows, len(result.Warnings), result.CacheInfo.RenderHit)
	return nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func openOutput(path string) (io.WriteCloser, error) {
	if path == stdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
