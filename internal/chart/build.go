package chart

import (
	"fmt"

	"github.com/naka-gawa/github-insights/internal/domain"
)

// Kind selects how a chart is drawn.
type Kind string

const (
	KindHorizontalBar Kind = "horizontal"
	KindDivergingBar  Kind = "diverging"
)

// Chart is a series paired with its rendering options.
type Chart struct {
	ID      string  `json:"id"`
	Kind    Kind    `json:"kind"`
	Series  Series  `json:"series"`
	Options Options `json:"options"`
}

// Chart IDs, in the order Build returns them.
const (
	IDCommits   = "commits"
	IDPRs       = "prs"
	IDMerges    = "merges"
	IDIssues    = "issues"
	IDStacked   = "stacked"
	IDFrequency = "frequency"
)

var metricTitles = map[string]string{
	domain.MetricCommits: "Commits Per Repo",
	domain.MetricPRs:     "PRs Per Repo",
	domain.MetricMerges:  "Merges Per Repo",
	domain.MetricIssues:  "Issues Per Repo",
}

const (
	stackedTitle   = "Stacked Bar Per Repo For Each Stat"
	frequencyTitle = "Additions vs Deletions Per Repo"
)

// Build produces the six charts of one request: one per metric, the stacked
// all-metrics chart and the diverging additions/deletions chart.
// metrics and frequency must come from the same request. Any error aborts the
// whole build and no chart is returned.
func Build(metrics *domain.RepoMetrics, frequency *domain.RepoFrequency) ([]Chart, error) {
	charts := make([]Chart, 0, len(domain.Metrics)+2)
	for _, metric := range domain.Metrics {
		series, err := BuildMetricSeries(metrics, metric)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s chart: %w", metric, err)
		}
		charts = append(charts, Chart{
			ID:      metric,
			Kind:    KindHorizontalBar,
			Series:  series,
			Options: HorizontalBarOptions(metricTitles[metric]),
		})
	}

	stacked, err := BuildStackedSeries(metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to build stacked chart: %w", err)
	}
	charts = append(charts, Chart{
		ID:      IDStacked,
		Kind:    KindHorizontalBar,
		Series:  stacked,
		Options: StackedBarOptions(stackedTitle),
	})

	freq, err := BuildFrequencySeries(frequency)
	if err != nil {
		return nil, fmt.Errorf("failed to build frequency chart: %w", err)
	}
	charts = append(charts, Chart{
		ID:      IDFrequency,
		Kind:    KindDivergingBar,
		Series:  freq,
		Options: DivergingOptions(frequencyTitle),
	})
	return charts, nil
}

// Renderer draws chart-ready series. Implementations are passed in explicitly
// wherever charts are drawn.
type Renderer interface {
	DrawHorizontalBar(series Series, options Options) error
	DrawDivergingBar(series Series, options Options) error
}

// Render draws every chart with r, stopping at the first failure.
func Render(r Renderer, charts []Chart) error {
	for _, c := range charts {
		var err error
		switch c.Kind {
		case KindHorizontalBar:
			err = r.DrawHorizontalBar(c.Series, c.Options)
		case KindDivergingBar:
			err = r.DrawDivergingBar(c.Series, c.Options)
		default:
			err = fmt.Errorf("unsupported chart kind %q", c.Kind)
		}
		if err != nil {
			return fmt.Errorf("failed to draw chart %q: %w", c.ID, err)
		}
	}
	return nil
}
