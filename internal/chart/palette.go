package chart

import (
	"fmt"
	"strconv"

	"github.com/naka-gawa/github-insights/internal/domain"
)

const (
	fillAlpha   = 0.5
	borderAlpha = 1.0
)

// Color is an RGB color with an alpha channel in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// String formats the color as a CSS rgba() value.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex formats the color as #rrggbb, dropping the alpha channel.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as its rgba() string.
func (c Color) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// ColorPair is the fill and border color of one dataset. Both share a hue.
type ColorPair struct {
	Fill   Color `json:"fill"`
	Border Color `json:"border"`
}

type hue struct{ r, g, b uint8 }

func (h hue) pair() ColorPair {
	return ColorPair{
		Fill:   Color{R: h.r, G: h.g, B: h.b, A: fillAlpha},
		Border: Color{R: h.r, G: h.g, B: h.b, A: borderAlpha},
	}
}

var metricHues = map[string]hue{
	domain.MetricCommits: {54, 162, 235},
	domain.MetricPRs:     {255, 99, 132},
	domain.MetricMerges:  {75, 192, 192},
	domain.MetricIssues:  {255, 159, 64},
}

var (
	additionsHue = hue{54, 162, 235}
	deletionsHue = hue{255, 99, 132}
)

// ColorFor returns the color pair of a metric.
func ColorFor(metric string) (ColorPair, error) {
	h, ok := metricHues[metric]
	if !ok {
		return ColorPair{}, &UnknownMetricError{Metric: metric}
	}
	return h.pair(), nil
}

// AdditionsColor is the color pair of the additions dataset of a frequency chart.
func AdditionsColor() ColorPair { return additionsHue.pair() }

// DeletionsColor is the color pair of the deletions dataset of a frequency chart.
func DeletionsColor() ColorPair { return deletionsHue.pair() }
