package main

import (
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
)

// Sampler draws fresh random experiments for a season.
type Sampler struct {
	cfg    Config
	rng    *rand.Rand
	oracle YieldOracle
	draw   drawFunc
}

// NewSampler creates a sampler for cfg drawing from rng and scoring with oracle.
func NewSampler(cfg Config, rng *rand.Rand, oracle YieldOracle) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil || oracle == nil {
		return nil, fmt.Errorf("%w: sampler needs a random source and an oracle", ErrConfig)
	}
	draw, err := drawerFor(cfg.Sampling)
	if err != nil {
		return nil, err
	}
	return &Sampler{cfg: cfg, rng: rng, oracle: oracle, draw: draw}, nil
}

// Generate returns ExperimentsPerSeason picks whose acres are pairwise
// distinct and absent from excluded. Seeds are drawn independently and may
// repeat. excluded is not modified.
func (s *Sampler) Generate(excluded map[int]bool, c Cycle) (Allocation, error) {
	n := s.cfg.ExperimentsPerSeason
	if free := s.cfg.AcreCount - countTaken(s.cfg.AcreCount, excluded); free < n {
		return nil, fmt.Errorf("%w: %d experiments need distinct acres but only %d are free",
			ErrExhausted, n, free)
	}

	used := make(map[int]bool, len(excluded)+n)
	maps.Copy(used, excluded)

	acres := make([]int, n)
	for i := range acres {
		acre, err := s.draw(s.rng, s.cfg.AcreCount, used)
		if err != nil {
			return nil, err
		}
		used[acre] = true
		acres[i] = acre
	}
	seeds := make([]int, n)
	for i := range seeds {
		seeds[i] = s.rng.IntN(s.cfg.SeedCount)
	}

	out := make(Allocation, n)
	for i := range out {
		p, err := s.score(seeds[i], acres[i], c)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// Draw returns one fresh pick whose acre is not in used, and marks that
// acre in used so consecutive draws never collide.
func (s *Sampler) Draw(used map[int]bool, c Cycle) (Pick, error) {
	acre, err := s.draw(s.rng, s.cfg.AcreCount, used)
	if err != nil {
		return Pick{}, err
	}
	used[acre] = true
	return s.score(s.rng.IntN(s.cfg.SeedCount), acre, c)
}

func (s *Sampler) score(seed, acre int, c Cycle) (Pick, error) {
	v, err := s.oracle.Yield(seed, acre, c)
	if err != nil {
		return Pick{}, fmt.Errorf("%w: seed %d acre %d year %d season %d: %w",
			ErrOracle, seed, acre, c.Year, c.Season, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Pick{}, fmt.Errorf("%w: seed %d acre %d year %d season %d: non-finite score %v",
			ErrOracle, seed, acre, c.Year, c.Season, v)
	}
	return Pick{Seed: seed, Acre: acre, Score: v}, nil
}
