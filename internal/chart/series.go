// Package chart turns per-repository aggregates into chart-ready series and
// the rendering options that go with them. Everything here is pure: no I/O,
// no logging, and inputs are never modified.
package chart

import (
	"fmt"
	"strings"

	"github.com/naka-gawa/github-insights/internal/domain"
)

// Dataset is one series of values aligned positionally with the chart's labels.
type Dataset struct {
	Label       string    `json:"label"`
	Values      []float64 `json:"values"`
	FillColor   Color     `json:"fillColor"`
	BorderColor Color     `json:"borderColor"`
}

// Series is the category labels of a chart plus the datasets drawn over them.
// Every dataset has exactly one value per label.
type Series struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset labels of the frequency chart.
const (
	AdditionsLabel = "Additions"
	DeletionsLabel = "Deletions"
)

// stackedOrder is the dataset order of the all-metrics chart.
var stackedOrder = []string{domain.MetricCommits, domain.MetricPRs, domain.MetricIssues, domain.MetricMerges}

// MetricLabel is the dataset label used for a metric.
func MetricLabel(metric string) string {
	return "Total " + strings.ToUpper(metric)
}

// BuildMetricSeries builds a single-dataset series of one metric across all repositories.
func BuildMetricSeries(m *domain.RepoMetrics, metric string) (Series, error) {
	return buildMetrics(m, []string{metric})
}

// BuildStackedSeries builds one dataset per metric, ordered commits, prs, issues, merges.
func BuildStackedSeries(m *domain.RepoMetrics) (Series, error) {
	return buildMetrics(m, stackedOrder)
}

func buildMetrics(m *domain.RepoMetrics, metrics []string) (Series, error) {
	datasets := make([]Dataset, 0, len(metrics))
	for _, metric := range metrics {
		colors, err := ColorFor(metric)
		if err != nil {
			return Series{}, err
		}
		datasets = append(datasets, Dataset{
			Label:       MetricLabel(metric),
			Values:      make([]float64, 0, m.Len()),
			FillColor:   colors.Fill,
			BorderColor: colors.Border,
		})
	}

	labels := m.Names()
	for _, name := range labels {
		rec, _ := m.Record(name)
		if err := validateRecord(name, rec); err != nil {
			return Series{}, err
		}
		for i, metric := range metrics {
			datasets[i].Values = append(datasets[i].Values, float64(rec[metric]))
		}
	}
	return Series{Labels: labels, Datasets: datasets}, nil
}

func validateRecord(repo string, rec domain.MetricRecord) error {
	for _, metric := range domain.Metrics {
		v, ok := rec[metric]
		if !ok {
			return &MalformedRecordError{Repo: repo, Reason: fmt.Sprintf("missing field %q", metric)}
		}
		if v < 0 {
			return &MalformedRecordError{Repo: repo, Reason: fmt.Sprintf("negative %s count %d", metric, v)}
		}
	}
	return nil
}

// BuildFrequencySeries builds the diverging additions/deletions series.
// Deletions are negated so they extend below the zero baseline.
func BuildFrequencySeries(f *domain.RepoFrequency) (Series, error) {
	add, del := AdditionsColor(), DeletionsColor()
	additions := Dataset{Label: AdditionsLabel, Values: make([]float64, 0, f.Len()), FillColor: add.Fill, BorderColor: add.Border}
	deletions := Dataset{Label: DeletionsLabel, Values: make([]float64, 0, f.Len()), FillColor: del.Fill, BorderColor: del.Border}

	labels := f.Names()
	for _, name := range labels {
		pair, _ := f.Pair(name)
		if len(pair) != 2 {
			return Series{}, &MalformedRecordError{Repo: name, Reason: fmt.Sprintf("expected [additions, deletions], got %d values", len(pair))}
		}
		if pair[0] < 0 || pair[1] < 0 {
			return Series{}, &MalformedRecordError{Repo: name, Reason: fmt.Sprintf("negative churn %v", pair)}
		}
		additions.Values = append(additions.Values, float64(pair[0]))
		deletions.Values = append(deletions.Values, float64(-pair[1]))
	}
	return Series{Labels: labels, Datasets: []Dataset{additions, deletions}}, nil
}
