package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-insights/internal/domain"
)

// MetricSummary describes the distribution of one metric across repositories.
type MetricSummary struct {
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    int     `json:"max"`
}

// Summary holds the totals and per-metric distribution of one request.
type Summary struct {
	Totals  domain.Totals            `json:"totals"`
	Metrics map[string]MetricSummary `json:"metrics"`
}

// Summarize computes totals and distribution statistics. Records missing a
// metric contribute nothing to it; shape validation belongs to chart building.
func Summarize(m *domain.RepoMetrics) Summary {
	summary := Summary{Metrics: make(map[string]MetricSummary, len(domain.Metrics))}
	for _, metric := range domain.Metrics {
		data := make(stats.Float64Data, 0, m.Len())
		for _, name := range m.Names() {
			rec, _ := m.Record(name)
			if v, ok := rec[metric]; ok {
				data = append(data, float64(v))
			}
		}
		summary.Metrics[metric] = summarizeMetric(data)
	}
	summary.Totals = domain.Totals{
		Commits: summary.Metrics[domain.MetricCommits].Total,
		PRs:     summary.Metrics[domain.MetricPRs].Total,
		Merges:  summary.Metrics[domain.MetricMerges].Total,
		Issues:  summary.Metrics[domain.MetricIssues].Total,
	}
	return summary
}

func summarizeMetric(data stats.Float64Data) MetricSummary {
	if data.Len() == 0 {
		return MetricSummary{}
	}
	// The input is non-empty, so these calls cannot fail.
	sum, _ := data.Sum()
	mean, _ := data.Mean()
	median, _ := data.Median()
	maxValue, _ := data.Max()
	return MetricSummary{
		Total:  int(sum),
		Mean:   mean,
		Median: median,
		Max:    int(maxValue),
	}
}
