package render

import (
	"github.com/naka-gawa/github-insights/internal/chart"
)

// TickFormatAbs tells the browser to print value ticks as magnitudes.
const TickFormatAbs = "abs"

// ChartJSConfig is a Chart.js bar chart configuration. Display strings that
// the browser would otherwise compute with callbacks are precomputed.
type ChartJSConfig struct {
	Type    string         `json:"type"`
	Data    ChartJSData    `json:"data"`
	Options ChartJSOptions `json:"options"`
}

type ChartJSData struct {
	Labels   []string         `json:"labels"`
	Datasets []ChartJSDataset `json:"datasets"`
}

type ChartJSDataset struct {
	Label           string      `json:"label"`
	Data            []float64   `json:"data"`
	BackgroundColor chart.Color `json:"backgroundColor"`
	BorderColor     chart.Color `json:"borderColor"`
	BorderWidth     int         `json:"borderWidth"`
	// Tooltips holds the hover text for each value, e.g. "Deletions: 45".
	Tooltips []string `json:"tooltips"`
}

type ChartJSOptions struct {
	IndexAxis string         `json:"indexAxis"`
	Plugins   ChartJSPlugins `json:"plugins"`
	Scales    ChartJSScales  `json:"scales"`
}

type ChartJSPlugins struct {
	Title  ChartJSTitle  `json:"title"`
	Legend ChartJSLegend `json:"legend"`
}

type ChartJSTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type ChartJSLegend struct {
	Position string `json:"position"`
}

type ChartJSScales struct {
	X ChartJSScale `json:"x"`
	Y ChartJSScale `json:"y"`
}

type ChartJSScale struct {
	BeginAtZero bool         `json:"beginAtZero,omitempty"`
	Stacked     bool         `json:"stacked"`
	Ticks       ChartJSTicks `json:"ticks"`
}

type ChartJSTicks struct {
	AutoSkip bool   `json:"autoSkip"`
	Format   string `json:"format,omitempty"`
	// Labels are the truncated category labels, parallel to Data.Labels.
	Labels []string `json:"labels,omitempty"`
}

// ChartJS collects a Chart.js configuration for every chart it draws.
type ChartJS struct {
	configs []ChartJSConfig
}

// NewChartJS creates an empty ChartJS renderer.
func NewChartJS() *ChartJS {
	return &ChartJS{}
}

// Configs returns the configurations drawn so far, in draw order.
func (c *ChartJS) Configs() []ChartJSConfig {
	return append([]ChartJSConfig(nil), c.configs...)
}

func (c *ChartJS) DrawHorizontalBar(series chart.Series, options chart.Options) error {
	c.configs = append(c.configs, newChartJSConfig(series, options, ""))
	return nil
}

func (c *ChartJS) DrawDivergingBar(series chart.Series, options chart.Options) error {
	c.configs = append(c.configs, newChartJSConfig(series, options, TickFormatAbs))
	return nil
}

func newChartJSConfig(series chart.Series, options chart.Options, format string) ChartJSConfig {
	labels := make([]string, len(series.Labels))
	for i, label := range series.Labels {
		labels[i] = options.CategoryLabel(label)
	}

	datasets := make([]ChartJSDataset, 0, len(series.Datasets))
	for _, ds := range series.Datasets {
		tooltips := make([]string, len(ds.Values))
		for i, v := range ds.Values {
			tooltips[i] = options.TooltipLabel(ds.Label, v)
		}
		datasets = append(datasets, ChartJSDataset{
			Label:           ds.Label,
			Data:            append([]float64{}, ds.Values...),
			BackgroundColor: ds.FillColor,
			BorderColor:     ds.BorderColor,
			BorderWidth:     1,
			Tooltips:        tooltips,
		})
	}

	return ChartJSConfig{
		Type: "bar",
		Data: ChartJSData{
			Labels:   append([]string{}, series.Labels...),
			Datasets: datasets,
		},
		Options: ChartJSOptions{
			IndexAxis: options.IndexAxis,
			Plugins: ChartJSPlugins{
				Title:  ChartJSTitle{Display: options.Title != "", Text: options.Title},
				Legend: ChartJSLegend{Position: options.Legend},
			},
			Scales: ChartJSScales{
				X: ChartJSScale{
					BeginAtZero: options.X.BeginAtZero,
					Stacked:     options.X.Stacked,
					Ticks:       ChartJSTicks{AutoSkip: options.X.AutoSkip, Format: format},
				},
				Y: ChartJSScale{
					Stacked: options.Y.Stacked,
					Ticks:   ChartJSTicks{AutoSkip: options.Y.AutoSkip, Labels: labels},
				},
			},
		},
	}
}
