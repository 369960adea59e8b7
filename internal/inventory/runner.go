// Package inventory runs batches of emission calculations concurrently:
// one job per vessel event, fanned out over a bounded worker pool.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dwsmith1983/shipemit/internal/config"
	"github.com/dwsmith1983/shipemit/internal/emission"
	"github.com/dwsmith1983/shipemit/internal/metrics"
	"github.com/dwsmith1983/shipemit/internal/track"
	"github.com/dwsmith1983/shipemit/pkg/types"
)

// Runner option defaults.
const (
	DefaultWorkers   = 4
	DefaultCacheSize = 1024
)

// Job is one emission calculation: a vessel event in some operating mode.
// Underway modes take positions; stationary modes take a duration.
type Job struct {
	// ID identifies the job in its result. Left empty, the runner
	// assigns a ULID.
	ID string

	// VesselAttrs holds the known vessel attributes; everything missing
	// is guessed from the configuration.
	VesselAttrs map[string]any

	Mode      types.Mode
	Positions []track.RawPosition
	Duration  time.Duration
}

// Result is the outcome of one job. Err is set when the job failed;
// failures never abort the rest of the batch.
type Result struct {
	ID     string
	Vessel types.VesselInfo
	Masses map[string]float64
	Err    error
}

// Options configures a Runner. The zero value picks defaults throughout.
type Options struct {
	// Workers bounds how many jobs run at once.
	Workers int

	// CacheSize bounds the vessel info guess cache. Batches typically
	// carry many events for the same few vessels.
	CacheSize int

	Sanitizer *track.Sanitizer
	Durations *emission.DurationSanitizer
	Logger    *slog.Logger
}

// Runner executes emission jobs against a shared configuration.
type Runner struct {
	cfg       *config.Config
	sanitizer *track.Sanitizer
	durations *emission.DurationSanitizer
	workers   int
	logger    *slog.Logger
	cache     *lru.Cache[string, types.VesselInfo]
}

// NewRunner builds a runner over the given configuration.
func NewRunner(cfg *config.Config, opts Options) (*Runner, error) {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Sanitizer == nil {
		opts.Sanitizer = track.NewSanitizer(nil, nil, opts.Logger)
	}
	if opts.Durations == nil {
		opts.Durations = emission.NewDurationSanitizer()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cache, err := lru.New[string, types.VesselInfo](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating guess cache: %w", err)
	}
	return &Runner{
		cfg:       cfg,
		sanitizer: opts.Sanitizer,
		durations: opts.Durations,
		workers:   opts.Workers,
		logger:    opts.Logger,
		cache:     cache,
	}, nil
}

// Run executes all jobs and returns one result per job, in job order.
// The only error it returns is context cancellation; per-job failures
// are reported in Result.Err.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.runJob(job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runJob(job Job) Result {
	res := Result{ID: job.ID}
	if res.ID == "" {
		res.ID = ulid.Make().String()
	}

	info, err := r.vesselFor(job.VesselAttrs)
	if err != nil {
		res.Err = fmt.Errorf("guessing vessel info: %w", err)
		return res
	}
	res.Vessel = info

	calc, err := emission.NewCalculator(r.cfg, info, r.durations, r.logger)
	if err != nil {
		res.Err = err
		return res
	}

	switch job.Mode {
	case types.ModeTransit, types.ModeManeuvering:
		trk := r.sanitizer.Sanitize(job.Positions)
		res.Masses, res.Err = calc.TrackEmissions(trk, job.Mode)
	case types.ModeHotelling, types.ModeAnchorage:
		res.Masses, res.Err = calc.MooringEmissions(job.Duration, job.Mode)
	default:
		res.Err = fmt.Errorf("%w: unknown mode %q", types.ErrValidation, job.Mode)
	}
	if res.Err != nil {
		r.logger.Warn("emission job failed", "job", res.ID, "error", res.Err)
	}
	return res
}

// vesselFor guesses the missing vessel attributes, memoizing per distinct
// attribute set.
func (r *Runner) vesselFor(attrs map[string]any) (types.VesselInfo, error) {
	key, err := cacheKey(attrs)
	if err != nil {
		return types.VesselInfo{}, err
	}
	if info, ok := r.cache.Get(key); ok {
		metrics.GuessCacheHits.Add(1)
		return info, nil
	}
	metrics.GuessCacheMisses.Add(1)

	info, err := r.cfg.Guesser().GuessMissing(attrs)
	if err != nil {
		return types.VesselInfo{}, err
	}
	r.cache.Add(key, info)
	return info, nil
}

// cacheKey serializes vessel attributes deterministically; JSON objects
// marshal with sorted keys.
func cacheKey(attrs map[string]any) (string, error) {
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("%w: vessel attributes not serializable: %v", types.ErrValidation, err)
	}
	return string(data), nil
}
