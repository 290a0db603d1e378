// Package render holds the concrete chart.Renderer implementations.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/naka-gawa/github-insights/internal/chart"
)

// DefaultTerminalWidth is used when the terminal size cannot be determined.
const DefaultTerminalWidth = 80

var titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)

var emptyStyle = lipgloss.NewStyle().Faint(true)

// Terminal draws charts as horizontal bar charts on a text terminal.
type Terminal struct {
	w     io.Writer
	width int
}

// NewTerminal creates a Terminal renderer writing to w.
func NewTerminal(w io.Writer, width int) *Terminal {
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	return &Terminal{w: w, width: width}
}

// DrawHorizontalBar draws one bar per category with the datasets stacked inside it.
func (t *Terminal) DrawHorizontalBar(series chart.Series, options chart.Options) error {
	return t.draw(series, options)
}

// DrawDivergingBar draws additions and deletions side by side as magnitudes.
// A terminal bar cannot extend left of its label, so the sign is carried by
// color and legend only.
func (t *Terminal) DrawDivergingBar(series chart.Series, options chart.Options) error {
	return t.draw(series, options)
}

func (t *Terminal) draw(series chart.Series, options chart.Options) error {
	if _, err := fmt.Fprintln(t.w, titleStyle.Render(options.Title)); err != nil {
		return err
	}
	if len(series.Labels) == 0 {
		_, err := fmt.Fprintln(t.w, emptyStyle.Render("no repositories"))
		return err
	}

	data := make([]barchart.BarData, 0, len(series.Labels))
	peak := 0.0
	for i, label := range series.Labels {
		values := make([]barchart.BarValue, 0, len(series.Datasets))
		for _, ds := range series.Datasets {
			v := math.Abs(ds.Values[i])
			peak = math.Max(peak, v)
			values = append(values, barchart.BarValue{
				Name:  ds.Label,
				Value: v,
				Style: datasetStyle(ds),
			})
		}
		data = append(data, barchart.BarData{
			Label:  options.CategoryLabel(label),
			Values: values,
		})
	}

	// An all-zero chart has no scale; the legend alone carries the values.
	if peak > 0 {
		bc := barchart.New(t.width, len(data)*2, barchart.WithDataSet(data), barchart.WithHorizontalBars())
		bc.Draw()
		if _, err := fmt.Fprintln(t.w, bc.View()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(t.w, legend(series, options))
	return err
}

func datasetStyle(ds chart.Dataset) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ds.BorderColor.Hex()))
}

// legend lists each category with the tooltip text of every dataset.
func legend(series chart.Series, options chart.Options) string {
	var b strings.Builder
	for _, ds := range series.Datasets {
		b.WriteString(datasetStyle(ds).Render("█ " + ds.Label))
		b.WriteString("  ")
	}
	for i, label := range series.Labels {
		b.WriteString("\n")
		b.WriteString(options.CategoryLabel(label))
		for _, ds := range series.Datasets {
			b.WriteString("  ")
			b.WriteString(options.TooltipLabel(ds.Label, ds.Values[i]))
		}
	}
	return b.String()
}
