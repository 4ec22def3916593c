package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
	"github.com/matzehuels/chartlayout/pkg/store"
)

// layoutCommand creates the layout command for computing chart layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		noCache  bool
		save     bool
		width    float64
		height   float64
		measurer string
	)

	cmd := &cobra.Command{
		Use:   "layout [chart.yaml]",
		Short: "Compute the layout of a chart document",
		Long: `Compute the layout of a chart document.

The layout command reads a chart document (JSON, YAML or TOML) and writes the
computed geometry as <input>.layout.json: band polygons, label boxes and
connectors for funnels and pyramids, stacked bars and moments for timelines.

With --save the layout is also kept in ~/.config/chartlayout/layouts under a
new id. Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.chartOptions(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				opts.Width = width
			}
			if cmd.Flags().Changed("height") {
				opts.Height = height
			}
			if measurer != "" {
				opts.Measurer = measurer
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, save)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&save, "save", false, "keep the layout in the local layout store")
	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "chart width (overrides the document)")
	cmd.Flags().Float64Var(&height, "height", pipeline.DefaultHeight, "chart height (overrides the document)")
	cmd.Flags().StringVar(&measurer, "measurer", "", "label measurement: font (default), estimate")

	return cmd
}

// runLayout lays out the chart and writes the layout JSON.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, save bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Formats = []string{pipeline.FormatJSON}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Kind()))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	l := result.Layout
	if err := chartdoc.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.Rows, len(result.Warnings), result.CacheInfo.LayoutHit)
	printWarnings(result.Warnings)

	if save {
		st, err := store.NewFileStore("")
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Save(ctx, &l); err != nil {
			return fmt.Errorf("save layout: %w", err)
		}
		printDetail("Saved as %s", l.ID)
	}

	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

// basePath returns output if set, otherwise input without its extension.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
