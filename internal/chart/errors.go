package chart

import "fmt"

// UnknownMetricError reports a metric name outside the recognized set.
type UnknownMetricError struct {
	Metric string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q", e.Metric)
}

// MalformedRecordError reports a repository record that does not have the agreed shape.
type MalformedRecordError struct {
	Repo   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record for repository %q: %s", e.Repo, e.Reason)
}
