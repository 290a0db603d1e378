// Package domain contains the core data structures and domain logic for the application.
package domain

// Metric names recognized across the application.
const (
	MetricCommits = "commits"
	MetricPRs     = "prs"
	MetricMerges  = "merges"
	MetricIssues  = "issues"
)

// Metrics lists the recognized metric names in their canonical traversal order.
var Metrics = []string{MetricCommits, MetricPRs, MetricMerges, MetricIssues}

// MetricRecord holds the activity counts of a single repository keyed by metric name.
// It is kept as a map so that a record received from upstream with a missing
// field can be told apart from a record whose count is zero.
type MetricRecord map[string]int

// NewMetricRecord builds a complete record from the four counts.
func NewMetricRecord(commits, prs, merges, issues int) MetricRecord {
	return MetricRecord{
		MetricCommits: commits,
		MetricPRs:     prs,
		MetricMerges:  merges,
		MetricIssues:  issues,
	}
}

// Totals holds the sum of each metric across all repositories.
type Totals struct {
	Commits int `json:"commits"`
	PRs     int `json:"prs"`
	Merges  int `json:"merges"`
	Issues  int `json:"issues"`
}

// Get returns the total for the named metric.
func (t Totals) Get(metric string) (int, bool) {
	switch metric {
	case MetricCommits:
		return t.Commits, true
	case MetricPRs:
		return t.PRs, true
	case MetricMerges:
		return t.Merges, true
	case MetricIssues:
		return t.Issues, true
	}
	return 0, false
}

// Churn is the number of added and removed lines of a repository over a period.
type Churn struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}
