package main

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

type runOptions struct {
	log     io.Writer
	verbose bool
	picks   bool
	metrics *Metrics
}

// runSimulation runs one simulation and summarises it. A nil field is
// replaced by a synthetic one built from the config's seed.
func runSimulation(cfg Config, field *FieldModel, opts runOptions) (RunReport, error) {
	cfg = cfg.withResolvedSeed()
	if err := cfg.Validate(); err != nil {
		return RunReport{}, err
	}
	if field == nil {
		field = SyntheticFieldModel(cfg, cfg.RandSeed)
	}
	if err := field.Check(cfg); err != nil {
		return RunReport{}, err
	}

	sim, err := NewSimulation(cfg, field,
		WithLog(opts.log, opts.verbose),
		WithMetrics(opts.metrics),
	)
	if err != nil {
		return RunReport{}, err
	}
	start := time.Now()
	state, err := sim.Run()
	if err != nil {
		return RunReport{}, err
	}
	return BuildReport(uuid.NewString(), sim.Config(), state, time.Since(start), opts.picks), nil
}

// replicateSeed derives the seed of replicate idx from base. Seeds that wrap
// past the top of the range skip 0, which would mean "seed from the clock".
func replicateSeed(base uint64, idx int) uint64 {
	s := base + uint64(idx)
	if s < base {
		s++
	}
	return s
}

// runReplicates runs n independent simulations with seeds RandSeed+i on a
// worker pool. All replicates share one field so only the strategy's own
// randomness differs between them. Reports come back in replicate order.
func runReplicates(cfg Config, field *FieldModel, n int, opts runOptions) ([]RunReport, error) {
	cfg = cfg.withResolvedSeed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if field == nil {
		field = SyntheticFieldModel(cfg, cfg.RandSeed)
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > n {
		numWorkers = n
	}

	// per-replicate progress would interleave; only the summary lines are logged
	progress := opts.log
	opts.log, opts.verbose = nil, false

	type result struct {
		idx    int
		report RunReport
		err    error
	}
	resultCh := make(chan result, n)
	idxCh := make(chan int, n)
	for i := range n {
		idxCh <- i
	}
	close(idxCh)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxCh {
				rc := cfg
				rc.RandSeed = replicateSeed(cfg.RandSeed, idx)
				ro := opts
				ro.metrics = opts.metrics.forReplicate(idx)
				r, err := runSimulation(rc, field, ro)
				resultCh <- result{idx, r, err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	reports := make([]RunReport, n)
	var firstErr error
	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("replicate %d: %w", r.idx, r.err)
			}
			continue
		}
		if progress != nil {
			fmt.Fprintf(progress, "[replicate] #%d done, total=%.2f, elapsed=%dms\n", r.idx, r.report.Total, r.report.TimeMs)
		}
		reports[r.idx] = r.report
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return reports, nil
}
