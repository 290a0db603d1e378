package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/naka-gawa/github-insights/internal/chart"
)

const (
	svgWidth       = 8 * vg.Inch
	svgMinHeight   = 3 * vg.Inch
	svgRowHeight   = vg.Inch / 3
	svgFileMode    = 0o644
	svgDirFileMode = 0o755
)

var svgBarWidth = vg.Points(14)

// SVG writes every chart it draws to <dir>/<title-slug>.svg.
type SVG struct {
	dir   string
	files []string
}

// NewSVG creates an SVG renderer writing into dir. The directory is created on first draw.
func NewSVG(dir string) *SVG {
	return &SVG{dir: dir}
}

// Files returns the paths written so far, in draw order.
func (s *SVG) Files() []string {
	return append([]string(nil), s.files...)
}

// DrawHorizontalBar writes one horizontal bar per category, stacking datasets when the options ask for it.
func (s *SVG) DrawHorizontalBar(series chart.Series, options chart.Options) error {
	return s.draw(series, options, options.X.Stacked)
}

// DrawDivergingBar writes datasets extending both ways from a shared zero baseline.
// Datasets of opposite sign never overlap, so they are drawn unstacked.
func (s *SVG) DrawDivergingBar(series chart.Series, options chart.Options) error {
	return s.draw(series, options, false)
}

func (s *SVG) draw(series chart.Series, options chart.Options, stacked bool) error {
	if len(series.Labels) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = options.Title
	p.Legend.Top = options.Legend == chart.LegendTop
	p.X.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := plot.DefaultTicks{}.Ticks(min, max)
		for i := range ticks {
			if ticks[i].Label != "" {
				ticks[i].Label = options.TickLabel(ticks[i].Value)
			}
		}
		return ticks
	})

	var below *plotter.BarChart
	for _, ds := range series.Datasets {
		bars, err := plotter.NewBarChart(plotter.Values(ds.Values), svgBarWidth)
		if err != nil {
			return fmt.Errorf("failed to plot dataset %q: %w", ds.Label, err)
		}
		bars.Horizontal = true
		bars.Color = toRGBA(ds.FillColor)
		bars.LineStyle.Color = toRGBA(ds.BorderColor)
		if stacked && below != nil {
			bars.StackOn(below)
		}
		below = bars
		p.Add(bars)
		p.Legend.Add(ds.Label, bars)
	}

	labels := make([]string, len(series.Labels))
	for i, label := range series.Labels {
		labels[i] = options.CategoryLabel(label)
	}
	p.NominalY(labels...)

	height := vg.Length(len(labels)) * svgRowHeight
	if height < svgMinHeight {
		height = svgMinHeight
	}
	wt, err := p.WriterTo(svgWidth, height, "svg")
	if err != nil {
		return fmt.Errorf("failed to encode svg: %w", err)
	}

	if err := os.MkdirAll(s.dir, svgDirFileMode); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(s.dir, slug(options.Title)+".svg")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, svgFileMode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	s.files = append(s.files, path)
	return nil
}

func toRGBA(c chart.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}

// slug turns "Commits Per Repo" into "commits-per-repo".
func slug(title string) string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return "chart"
	}
	return strings.Join(fields, "-")
}
