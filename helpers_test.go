package main

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func testConfig(acres, seeds, years, seasons, experiments int) Config {
	return Config{
		AcreCount:            acres,
		SeedCount:            seeds,
		Years:                years,
		Seasons:              seasons,
		ExperimentsPerSeason: experiments,
		RandSeed:             1,
		Sampling:             SamplingUniform,
	}
}

// acreOracle scores a pick by its acre index.
var acreOracle = OracleFunc(func(_, acre int, _ Cycle) (float64, error) {
	return float64(acre), nil
})

var errBoom = errors.New("boom")

// recordingOracle remembers every call and can fail on the n-th one (1-based).
type recordingOracle struct {
	mu     sync.Mutex
	calls  []Cycle
	failAt int
	score  func(seed, acre int, c Cycle) float64
}

func (o *recordingOracle) Yield(seed, acre int, c Cycle) (float64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, c)
	if o.failAt > 0 && len(o.calls) == o.failAt {
		return 0, errBoom
	}
	if o.score != nil {
		return o.score(seed, acre, c), nil
	}
	return float64(acre), nil
}

// checkAllocation verifies the structural invariants every allocation must hold.
func checkAllocation(t *testing.T, cfg Config, a Allocation) {
	t.Helper()
	if len(a) != cfg.ExperimentsPerSeason {
		t.Errorf("allocation has %d picks, want %d", len(a), cfg.ExperimentsPerSeason)
	}
	seen := make(map[int]bool, len(a))
	for i, p := range a {
		prefix := fmt.Sprintf("pick %d", i)
		if p.Seed < 0 || p.Seed >= cfg.SeedCount {
			t.Errorf("%s: seed %d outside [0, %d)", prefix, p.Seed, cfg.SeedCount)
		}
		if p.Acre < 0 || p.Acre >= cfg.AcreCount {
			t.Errorf("%s: acre %d outside [0, %d)", prefix, p.Acre, cfg.AcreCount)
		}
		if seen[p.Acre] {
			t.Errorf("%s: acre %d booked twice", prefix, p.Acre)
		}
		seen[p.Acre] = true
	}
}

func acreSet(a Allocation) map[int]bool {
	out := make(map[int]bool, len(a))
	for _, p := range a {
		out[p.Acre] = true
	}
	return out
}
