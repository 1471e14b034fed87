package main

import "fmt"

// SeasonOptimizer keeps the best half of a season's experiments and refills
// the rest with fresh random picks.
type SeasonOptimizer struct {
	cfg     Config
	sampler *Sampler
}

// NewSeasonOptimizer creates an optimizer that draws replacements from sampler.
func NewSeasonOptimizer(cfg Config, sampler *Sampler) *SeasonOptimizer {
	return &SeasonOptimizer{cfg: cfg, sampler: sampler}
}

// Optimize ranks previous by score, keeps the top Retained() picks unchanged
// and replaces the others with new picks on acres not used by the kept ones.
// previous is left untouched; the result is a new allocation of the same size.
func (o *SeasonOptimizer) Optimize(previous Allocation, c Cycle) (Allocation, error) {
	n := o.cfg.ExperimentsPerSeason
	if len(previous) != n {
		return nil, fmt.Errorf("%w: allocation has %d picks, want %d", ErrConfig, len(previous), n)
	}

	ranked := previous.Ranked()
	keep := o.cfg.Retained()

	next := make(Allocation, 0, n)
	next = append(next, ranked[:keep]...)

	used := make(map[int]bool, n)
	for _, p := range next {
		if used[p.Acre] {
			return nil, fmt.Errorf("%w: acre %d is booked twice", ErrConfig, p.Acre)
		}
		used[p.Acre] = true
	}
	for len(next) < n {
		p, err := o.sampler.Draw(used, c)
		if err != nil {
			return nil, err
		}
		next = append(next, p)
	}
	return next, nil
}
