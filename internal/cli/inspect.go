package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
	"github.com/matzehuels/chartlayout/pkg/text"
)

// inspectCommand creates the inspect command, an interactive layout viewer.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		width    float64
		height   float64
		measurer string
	)

	cmd := &cobra.Command{
		Use:   "inspect [chart.yaml]",
		Short: "Step through a layout interactively",
		Long: `Step through a layout interactively.

Shows the geometry of every point in a table. For funnels and pyramids,
hover or select the current row, flip the stacking order or turn label
overlap correction off; each change runs a new layout pass. For timelines,
scroll the plot to see how the translation is clamped.`,
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
			return c.runInspect(cmd.Context(), opts)
		},
	}

	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "chart width (overrides the document)")
	cmd.Flags().Float64Var(&height, "height", pipeline.DefaultHeight, "chart height (overrides the document)")
	cmd.Flags().StringVar(&measurer, "measurer", "", "label measurement: font (default), estimate")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	tables, err := pipeline.LoadTables(ctx, opts.Chart, opts.BaseDir)
	if err != nil {
		return err
	}

	if opts.Measurer == pipeline.MeasurerEstimate {
		opts.TextMeasurer = text.Estimator{}
	} else {
		fm, err := text.NewFontMeasurer(nil)
		if err != nil {
			return fmt.Errorf("load measuring font: %w", err)
		}
		defer fm.Close()
		opts.TextMeasurer = fm
	}

	model := NewInspectModel(ctx, opts.Chart, tables, opts)
	if model.Err != nil {
		return model.Err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
