// Package view owns the request lifecycle of one insights view: it resolves a
// profile, fetches metrics and code frequency together, builds the charts and
// hands them to a renderer.
package view

import (
	"github.com/naka-gawa/github-insights/internal/chart"
	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/naka-gawa/github-insights/internal/usecase"
)

// State is one of Idle, Loading, Loaded or Failed. States are immutable and
// replaced as a whole, so metrics and frequency of different requests are
// never observed together.
type State interface {
	isState()
}

// Idle is the state before the first submission.
type Idle struct{}

// Loading is the state while a submission is in flight.
type Loading struct {
	Seq     uint64
	Profile string
	Year    int
}

// Loaded holds every result of one successful submission.
type Loaded struct {
	Seq       uint64
	Year      int
	Profile   usecase.Profile
	Metrics   *domain.RepoMetrics
	Frequency *domain.RepoFrequency
	Summary   usecase.Summary
	Charts    []chart.Chart
}

// Failed holds the reason a submission did not load. No partial data is kept.
type Failed struct {
	Seq    uint64
	Reason error
}

func (Idle) isState()    {}
func (Loading) isState() {}
func (Loaded) isState()  {}
func (Failed) isState()  {}
