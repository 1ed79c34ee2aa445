// SPDX-License-Identifier: MIT

package restart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/plan-systems/klog"

	"github.com/katalvlaran/mgmatch/gmatch"
	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/plan"
	"github.com/katalvlaran/mgmatch/rng"
)

// Sentinel errors.
var (
	// ErrNilProblem is returned when Run is called without a Problem.
	ErrNilProblem = errors.New("restart: nil problem")
	// ErrBadRuns indicates a non-positive run count.
	ErrBadRuns = errors.New("restart: runs must be positive")
	// ErrBadWorkers indicates a negative worker count.
	ErrBadWorkers = errors.New("restart: workers must be non-negative")
)

// Config drives Run.
//
// Runs    – number of restarts (required, > 0).
// Workers – concurrent goroutines; 0 means 1. Forced to 1 when decay is enabled.
// Seed    – base seed; run i uses rng.DeriveSeed(Seed, i).
// Options – gmatch options shared by every run (a WithSeed among them is overridden).
// Counter – optional solution counter to accumulate into; a fresh one is made when nil.
// Metrics – optional collectors.
type Config struct {
	Runs    int
	Workers int
	Seed    uint64
	Options []gmatch.Option
	Counter *matrix.Counter
	Metrics *Metrics
}

// RunResult is one finished restart.
type RunResult struct {
	ID        uuid.UUID
	Index     int
	Seed      uint64
	Result    gmatch.Result
	Objective float64
}

// Report aggregates a Run call. Runs holds finished runs in run order; Best indexes the run
// with the highest Objective (first one on ties), or -1 when Runs is empty.
type Report struct {
	Runs    []RunResult
	Counter *matrix.Counter
	Best    int
}

// BestRun returns the best run and false when no run finished.
func (r Report) BestRun() (RunResult, bool) {
	if r.Best < 0 || r.Best >= len(r.Runs) {
		return RunResult{}, false
	}

	return r.Runs[r.Best], true
}

type outcome struct {
	done  bool
	res   RunResult
	shard *matrix.Counter
	err   error
}

// Run executes cfg.Runs restarts of gmatch.Match on p.
// On cancellation or a failing run, it returns the runs finished so far together with the error.
func Run(ctx context.Context, p *gmatch.Problem, cfg Config) (Report, error) {
	rep := Report{Best: -1}
	if p == nil {
		return rep, ErrNilProblem
	}
	if cfg.Runs <= 0 {
		return rep, fmt.Errorf("Run: %d: %w", cfg.Runs, ErrBadRuns)
	}
	if cfg.Workers < 0 {
		return rep, fmt.Errorf("Run: %d: %w", cfg.Workers, ErrBadWorkers)
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = 1
	}
	if workers > cfg.Runs {
		workers = cfg.Runs
	}

	counter := cfg.Counter
	if counter == nil {
		var err error
		if counter, err = matrix.NewCounter(p.NT, p.NW); err != nil {
			return rep, fmt.Errorf("Run: %w", err)
		}
	} else if counter.Rows() != p.NT || counter.Cols() != p.NW {
		return rep, fmt.Errorf("Run: counter %dx%d: %w", counter.Rows(), counter.Cols(), gmatch.ErrCounterShape)
	}
	rep.Counter = counter

	opts, o := resolve(p, cfg.Options)
	if o.DecayEnabled() && workers > 1 {
		klog.Warningf("restart: decay enabled, running %d restarts on a single worker instead of %d", cfg.Runs, workers)
		workers = 1
	}

	var outs []outcome
	if workers == 1 {
		outs = sequential(ctx, p, cfg, opts, counter)
	} else {
		outs = parallel(ctx, p, cfg, opts, workers)
	}

	return collect(ctx, rep, outs)
}

// resolve applies the init fallback and returns the effective option list.
func resolve(p *gmatch.Problem, opts []gmatch.Option) ([]gmatch.Option, gmatch.Options) {
	o := gmatch.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	out := append([]gmatch.Option(nil), opts...)
	if o.InitialPlan == nil && o.Init != plan.RowNorm {
		if n := p.SingleCandidateColumns(); n > 0 {
			klog.Warningf("restart: %d world nodes have a single candidate, using %s init instead of %s", n, plan.RowNorm, o.Init)
			out = append(out, gmatch.WithInit(plan.RowNorm, o.InitIterations))
			o.Init = plan.RowNorm
		}
	}

	return out, o
}

// sequential shares counter between runs, so decay feeds forward.
func sequential(ctx context.Context, p *gmatch.Problem, cfg Config, opts []gmatch.Option, counter *matrix.Counter) []outcome {
	outs := make([]outcome, cfg.Runs)
	for i := range outs {
		if ctx.Err() != nil {
			break
		}
		outs[i] = one(p, cfg, opts, i, counter)
		if outs[i].err != nil {
			break
		}
	}

	return outs
}

// parallel gives every run its own shard; the first failure cancels scheduling.
func parallel(ctx context.Context, p *gmatch.Problem, cfg Config, opts []gmatch.Option, workers int) []outcome {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outs := make([]outcome, cfg.Runs)
	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Runs; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				shard, err := matrix.NewCounter(p.NT, p.NW)
				if err != nil {
					outs[i] = outcome{err: err}
					cancel()
					continue
				}
				outs[i] = one(p, cfg, opts, i, shard)
				outs[i].shard = shard
				if outs[i].err != nil {
					cancel()
				}
			}
		}()
	}
	wg.Wait()

	return outs
}

// one runs restart i with its derived seed.
func one(p *gmatch.Problem, cfg Config, opts []gmatch.Option, i int, counter *matrix.Counter) outcome {
	seed := rng.DeriveSeed(cfg.Seed, uint64(i))
	runOpts := append(append([]gmatch.Option(nil), opts...), gmatch.WithSeed(seed))

	start := time.Now()
	res, err := gmatch.Match(p, counter, runOpts...)
	cfg.Metrics.observe(res, err, time.Since(start).Seconds())
	if err != nil {
		return outcome{err: fmt.Errorf("run %d: %w", i, err)}
	}
	klog.V(1).Infof("restart: run=%d seed=%d iterations=%d score=%.12g", i, seed, res.Iterations, res.Score)

	return outcome{
		done: true,
		res: RunResult{
			ID:        uuid.New(),
			Index:     i,
			Seed:      seed,
			Result:    res,
			Objective: res.Score,
		},
	}
}

// collect merges shards and results in run order and reports the first error.
func collect(ctx context.Context, rep Report, outs []outcome) (Report, error) {
	var firstErr error
	for _, out := range outs {
		if out.err != nil && firstErr == nil {
			firstErr = out.err
		}
		if !out.done {
			continue
		}
		if out.shard != nil {
			if err := rep.Counter.Merge(out.shard); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if rep.Best < 0 || out.res.Objective > rep.Runs[rep.Best].Objective {
			rep.Best = len(rep.Runs)
		}
		rep.Runs = append(rep.Runs, out.res)
	}
	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return rep, fmt.Errorf("Run: %w", firstErr)
	}

	return rep, nil
}
