package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/data"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
	"github.com/matzehuels/chartlayout/pkg/render/funnel"
	"github.com/matzehuels/chartlayout/pkg/render/timeline"
)

// scrollStep is the timeline scroll change per keypress, in pixels.
const scrollStep = 20.0

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// InspectModel - Interactive layout inspection
// =============================================================================

// InspectModel is the bubbletea model of the inspect command. Every toggle
// edits the chart document or its rows and runs a fresh layout pass.
type InspectModel struct {
	ctx    context.Context
	chart  *chartdoc.Chart
	tables pipeline.Tables
	opts   pipeline.Options

	Scene  *pipeline.Scene
	Err    error
	Scroll float64

	Cursor int
	Offset int
	Height int

	rows [][]string
	miss []bool
}

// NewInspectModel lays out chart once and returns the model. opts must be
// validated.
func NewInspectModel(ctx context.Context, chart *chartdoc.Chart, tables pipeline.Tables, opts pipeline.Options) InspectModel {
	m := InspectModel{ctx: ctx, chart: chart, tables: tables, opts: opts, Height: 15}
	m.relayout()
	return m
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "h":
			m.toggleRow(funnel.ColumnHovered)
		case "s":
			m.toggleRow(funnel.ColumnSelected)
		case "r":
			m.toggleReversed()
		case "o":
			m.toggleOverlap()
		case "+", "=":
			m.Scroll += scrollStep
		case "-":
			m.Scroll -= scrollStep
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// =============================================================================
// Toggles
// =============================================================================

func (m *InspectModel) isFunnel() bool {
	return m.chart.Kind != chartdoc.KindTimeline
}

// toggleRow flips a boolean interaction column of the current funnel row.
func (m *InspectModel) toggleRow(column string) {
	if !m.isFunnel() || m.tables.Funnel == nil || m.Cursor >= m.tables.Funnel.Len() {
		return
	}
	row := m.tables.Funnel.Rows[m.Cursor]
	on := data.Bool(row[column])
	row[column] = on == nil || !*on
	m.relayout()
}

func (m *InspectModel) funnelOptions() *funnel.Options {
	if m.chart.Funnel == nil {
		m.chart.Funnel = &funnel.Options{Kind: funnel.Kind(m.chart.Kind)}
	}
	return m.chart.Funnel
}

func (m *InspectModel) toggleReversed() {
	if !m.isFunnel() || m.Scene == nil || m.Scene.Funnel == nil {
		return
	}
	reversed := !m.Scene.Funnel.Reversed
	m.funnelOptions().Reversed = &reversed
	m.relayout()
}

func (m *InspectModel) toggleOverlap() {
	if !m.isFunnel() {
		return
	}
	fo := m.funnelOptions()
	if fo.OverlapMode == funnel.AllowOverlap {
		fo.OverlapMode = funnel.NoOverlap
	} else {
		fo.OverlapMode = funnel.AllowOverlap
	}
	m.relayout()
}

// relayout runs a layout pass and rebuilds the table rows.
func (m *InspectModel) relayout() {
	sc, err := pipeline.ComputeLayout(m.ctx, m.chart, m.tables, m.opts)
	m.Err = err
	if err != nil {
		return
	}
	m.Scene = sc
	m.rows, m.miss = nil, nil
	if sc.Funnel != nil {
		for i := range sc.Funnel.Points {
			m.addRow(funnelRow(&sc.Funnel.Points[i]))
		}
	} else if sc.Timeline != nil {
		for si := range sc.Timeline.Series {
			s := &sc.Timeline.Series[si]
			for pi := range s.Points {
				m.addRow(timelineRow(s, &s.Points[pi]))
			}
		}
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = max(len(m.rows)-1, 0)
	}
}

func (m *InspectModel) addRow(cells []string, missing bool) {
	m.rows = append(m.rows, cells)
	m.miss = append(m.miss, missing)
}

// =============================================================================
// Rows
// =============================================================================

var (
	funnelHeaders   = []string{"", "#", "Name", "Value", "State", "Band y", "Label box", "Domain", "Forced"}
	timelineHeaders = []string{"", "Series", "#", "Kind", "Dir", "Start", "End", "Stack y", "Label"}
)

func funnelRow(p *funnel.Point) ([]string, bool) {
	bottom := p.Y2
	if p.Neck {
		bottom = p.Y3
	}
	label, domain, forced := "-", "-", ""
	if l := p.Label; l != nil {
		b := l.Bounds
		label = fmt.Sprintf("%.0f,%.0f %.0fx%.0f", b.Left, b.Top, b.Width, b.Height)
		if !l.Fits {
			label += " hidden"
		}
		if l.Domain >= 0 {
			domain = fmt.Sprint(l.Domain)
		}
		if l.WidthForced > 0 {
			forced = fmt.Sprintf("%.0f", l.WidthForced)
		}
	}
	return []string{
		"",
		fmt.Sprint(p.Index),
		p.Name,
		fmt.Sprintf("%g", p.Value),
		p.State.String(),
		fmt.Sprintf("%.1f..%.1f", p.Y1, bottom),
		label,
		domain,
		forced,
	}, p.Missing
}

func timelineRow(s *timeline.SeriesResult, p *timeline.Point) ([]string, bool) {
	start, end := fmt.Sprintf("%g", p.Start), fmt.Sprintf("%g", p.End)
	if p.Kind == timeline.KindMoment {
		start, end = fmt.Sprintf("%g", p.X), ""
	}
	stack := "-"
	if !p.Missing {
		stack = fmt.Sprintf("%.1f..%.1f", p.Bounds.SY, p.Bounds.EY)
	}
	return []string{
		"",
		s.Name,
		fmt.Sprint(p.Index),
		string(p.Kind),
		string(p.Direction),
		start,
		end,
		stack,
		p.Label,
	}, p.Missing
}

// =============================================================================
// View
// =============================================================================

func (m InspectModel) View() string {
	var b strings.Builder

	title := m.chart.Title
	if title == "" {
		title = m.chart.Kind
	}
	b.WriteString(StyleTitle.Render("Inspect " + title))
	b.WriteString("\n")
	if m.isFunnel() {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  h hover  s select  r reversed  o overlap  q quit"))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  +/- scroll  q quit"))
	}
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(StyleWarning.Render("layout failed: " + m.Err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		row := append([]string(nil), m.rows[i]...)
		if i == m.Cursor {
			row[0] = "▸"
		}
		rows = append(rows, row)
	}

	headers := timelineHeaders
	if m.isFunnel() {
		headers = funnelHeaders
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			switch {
			case idx >= len(m.rows):
				return lipgloss.NewStyle()
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case m.miss[idx]:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.summary())
	b.WriteString("\n")
	if n := len(m.Scene.Warnings); n > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d warnings, last: %s", n, m.Scene.Warnings[n-1])))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.rows)), len(m.rows))))

	return b.String()
}

// summary is the line of pass-level numbers below the table.
func (m InspectModel) summary() string {
	var parts []string
	switch {
	case m.Scene.Funnel != nil:
		r := m.Scene.Funnel
		parts = []string{
			string(r.Kind),
			fmt.Sprintf("reversed %v", r.Reversed),
			string(m.overlapMode()),
			fmt.Sprintf("%d iterations", r.Iterations),
			fmt.Sprintf("%d domains", len(r.Domains)),
			fmt.Sprintf("center %.1f", r.CenterX),
			fmt.Sprintf("%d forced", r.Forced),
		}
		if r.Capped {
			parts = append(parts, StyleWarning.Render("capped"))
		}
	case m.Scene.Timeline != nil:
		r := m.Scene.Timeline
		parts = []string{
			fmt.Sprintf("%d up", r.Up),
			fmt.Sprintf("%d down", r.Down),
			fmt.Sprintf("range %.1f..%.1f", r.TotalRange.SY, r.TotalRange.EY),
			fmt.Sprintf("offsets %.1f..%.1f", r.OffsetMin, r.OffsetMax),
			fmt.Sprintf("scroll %.0f → %.1f", m.Scroll, r.Translate(m.Scroll)),
		}
	}
	line := " "
	for i, p := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleNumber.Render(p)
	}
	return line
}

func (m InspectModel) overlapMode() funnel.OverlapMode {
	if m.chart.Funnel != nil && m.chart.Funnel.OverlapMode != "" {
		return m.chart.Funnel.OverlapMode
	}
	return funnel.NoOverlap
}
