package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-insights/internal/chart"
	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/naka-gawa/github-insights/internal/usecase"
)

// ErrSuperseded is the reason reported to a submission overtaken by a newer one.
var ErrSuperseded = errors.New("submission superseded by a newer one")

// ProfileResolver resolves a submitted profile into an account and its repositories.
type ProfileResolver interface {
	Resolve(ctx context.Context, profile string) (usecase.Profile, error)
}

// StatsSource produces the two aggregates charts are built from.
type StatsSource interface {
	CollectMetrics(ctx context.Context, owner string, repos []string, year int) (*domain.RepoMetrics, error)
	CollectFrequency(ctx context.Context, owner string, repos []string, year int) (*domain.RepoFrequency, error)
}

// Orchestrator drives submissions and holds the current State.
//
// Only the latest submission may change the state: starting a submission
// cancels the one in flight, and a result arriving for an older sequence
// number is dropped.
type Orchestrator struct {
	resolver ProfileResolver
	source   StatsSource
	renderer chart.Renderer
	logger   *zap.Logger
	now      func() time.Time

	drawMu sync.Mutex

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  State
}

// New creates an Orchestrator. renderer may be nil when the caller only needs the built charts.
func New(resolver ProfileResolver, source StatsSource, renderer chart.Renderer, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		source:   source,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
		state:    Idle{},
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Submit loads the view for profile and year and returns the state this submission produced.
// A Loaded state has already been drawn with the renderer. When a newer
// submission started meanwhile, the result is discarded and a Failed state
// wrapping ErrSuperseded is returned without touching the current state.
func (o *Orchestrator) Submit(ctx context.Context, profile string, year int) State {
	ctx, seq := o.begin(ctx, profile, year)
	next := o.load(ctx, seq, profile, year)
	return o.finish(seq, next)
}

func (o *Orchestrator) begin(parent context.Context, profile string, year int) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
	o.seq++
	o.cancel = cancel
	o.state = Loading{Seq: o.seq, Profile: profile, Year: year}
	o.logger.Debug("Submission started", zap.Uint64("seq", o.seq), zap.String("profile", profile), zap.Int("year", year))
	return ctx, o.seq
}

func (o *Orchestrator) load(ctx context.Context, seq uint64, profile string, year int) State {
	if err := usecase.ValidateYear(year, o.now()); err != nil {
		return Failed{Seq: seq, Reason: err}
	}
	p, err := o.resolver.Resolve(ctx, profile)
	if err != nil {
		return Failed{Seq: seq, Reason: err}
	}

	// Both aggregates or neither.
	var metrics *domain.RepoMetrics
	var frequency *domain.RepoFrequency
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		metrics, err = o.source.CollectMetrics(egCtx, p.Username, p.Repos, year)
		return err
	})
	eg.Go(func() error {
		var err error
		frequency, err = o.source.CollectFrequency(egCtx, p.Username, p.Repos, year)
		return err
	})
	if err := eg.Wait(); err != nil {
		return Failed{Seq: seq, Reason: err}
	}

	charts, err := chart.Build(metrics, frequency)
	if err != nil {
		return Failed{Seq: seq, Reason: err}
	}
	return Loaded{
		Seq:       seq,
		Year:      year,
		Profile:   p,
		Metrics:   metrics,
		Frequency: frequency,
		Summary:   usecase.Summarize(metrics),
		Charts:    charts,
	}
}

// finish applies next if seq is still the latest submission. Drawing happens
// outside the lock, so State and newer submissions are never blocked by a
// slow renderer; the sequence number is checked again before storing.
func (o *Orchestrator) finish(seq uint64, next State) State {
	// drawMu keeps two submissions from drawing with the renderer at once.
	o.drawMu.Lock()
	if !o.isLatest(seq) {
		o.drawMu.Unlock()
		return o.superseded(seq)
	}
	if loaded, ok := next.(Loaded); ok && o.renderer != nil {
		if err := chart.Render(o.renderer, loaded.Charts); err != nil {
			next = Failed{Seq: seq, Reason: err}
		}
	}
	o.drawMu.Unlock()

	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.seq {
		return o.superseded(seq)
	}
	o.cancel()
	o.cancel = nil
	if failed, ok := next.(Failed); ok {
		o.logger.Warn("Submission failed", zap.Uint64("seq", seq), zap.Error(failed.Reason))
	}
	o.state = next
	return next
}

func (o *Orchestrator) isLatest(seq uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return seq == o.seq
}

func (o *Orchestrator) superseded(seq uint64) State {
	o.logger.Info("Discarding superseded submission", zap.Uint64("seq", seq))
	return Failed{Seq: seq, Reason: ErrSuperseded}
}
