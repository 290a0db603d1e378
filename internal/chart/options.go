package chart

import (
	"math"
	"strconv"
)

// IndexAxisY puts categories on the y axis, which draws bars horizontally.
const IndexAxisY = "y"

// LegendTop places the legend above the plot.
const LegendTop = "top"

// ValueFormatter renders a numeric value for display.
type ValueFormatter func(float64) string

// LabelFormatter renders a category label for display.
type LabelFormatter func(string) string

// Axis configures one axis of a bar chart.
type Axis struct {
	BeginAtZero bool `json:"beginAtZero"`
	Stacked     bool `json:"stacked"`
	AutoSkip    bool `json:"autoSkip"`

	FormatTick  ValueFormatter `json:"-"`
	FormatLabel LabelFormatter `json:"-"`
}

// Options is the rendering configuration paired with a Series.
// X is the value axis and Y the category axis.
type Options struct {
	Title     string `json:"title"`
	IndexAxis string `json:"indexAxis"`
	Legend    string `json:"legend"`
	X         Axis   `json:"x"`
	Y         Axis   `json:"y"`

	FormatTooltip ValueFormatter `json:"-"`
}

// HorizontalBarOptions configures a horizontal bar chart with truncated category labels.
func HorizontalBarOptions(title string) Options {
	return Options{
		Title:     title,
		IndexAxis: IndexAxisY,
		Legend:    LegendTop,
		X: Axis{
			BeginAtZero: true,
			AutoSkip:    true,
			FormatTick:  FormatNumber,
		},
		Y: Axis{
			FormatLabel: Truncate,
		},
		FormatTooltip: FormatNumber,
	}
}

// StackedBarOptions is HorizontalBarOptions with the datasets stacked on both axes.
func StackedBarOptions(title string) Options {
	o := HorizontalBarOptions(title)
	o.X.Stacked = true
	o.Y.Stacked = true
	return o
}

// DivergingOptions configures a chart whose datasets extend on both sides of a
// shared zero baseline. Ticks and tooltips show magnitudes, never negative numbers.
func DivergingOptions(title string) Options {
	o := StackedBarOptions(title)
	o.X.FormatTick = FormatAbs
	o.FormatTooltip = FormatAbs
	return o
}

// TickLabel formats a value-axis tick.
func (o Options) TickLabel(v float64) string {
	if o.X.FormatTick == nil {
		return FormatNumber(v)
	}
	return o.X.FormatTick(v)
}

// CategoryLabel formats a category-axis tick.
func (o Options) CategoryLabel(label string) string {
	if o.Y.FormatLabel == nil {
		return label
	}
	return o.Y.FormatLabel(label)
}

// TooltipValue formats a hovered value.
func (o Options) TooltipValue(v float64) string {
	if o.FormatTooltip == nil {
		return FormatNumber(v)
	}
	return o.FormatTooltip(v)
}

// TooltipLabel formats the tooltip line of one dataset value, e.g. "Deletions: 45".
func (o Options) TooltipLabel(dataset string, v float64) string {
	return dataset + ": " + o.TooltipValue(v)
}

// FormatNumber prints v with the fewest digits that represent it exactly.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatAbs prints the magnitude of v.
func FormatAbs(v float64) string {
	return FormatNumber(math.Abs(v))
}
