package main

import (
	"fmt"
	"testing"
)

// verifyResult runs the checklist against a finished simulation.
func verifyResult(t *testing.T, cfg Config, field *FieldModel, state SimState, reports []CycleReport) {
	t.Helper()

	// 1. every season initialised, nothing else
	if len(state) != cfg.Seasons {
		t.Errorf("got %d seasons, want %d", len(state), cfg.Seasons)
	}
	for season := 0; season < cfg.Seasons; season++ {
		a, ok := state[season]
		if !ok {
			t.Errorf("season %d missing", season)
			continue
		}
		prefix := fmt.Sprintf("season %d", season)

		// 2. size, acre uniqueness and ranges
		checkAllocation(t, cfg, a)

		for i, p := range a {
			// 3. score is the oracle's value for some cycle of this season
			matched := false
			for year := 0; year < cfg.Years && !matched; year++ {
				v, err := field.Yield(p.Seed, p.Acre, Cycle{Year: year, Season: season})
				if err != nil {
					t.Fatalf("%s pick %d: %v", prefix, i, err)
				}
				matched = v == p.Score
			}
			if !matched {
				t.Errorf("%s pick %d: score %.2f not produced by any year of this season", prefix, i, p.Score)
			}
		}
	}

	// 4. one report per cycle, year-major, sample only on the first visit
	if want := cfg.Years * cfg.Seasons; len(reports) != want {
		t.Fatalf("got %d cycle reports, want %d", len(reports), want)
	}
	for i, r := range reports {
		want := Cycle{Year: i / cfg.Seasons, Season: i % cfg.Seasons}
		if r.Cycle != want {
			t.Errorf("report %d: cycle %+v, want %+v", i, r.Cycle, want)
		}
		wantPhase := PhaseOptimize
		if r.Year == 0 {
			wantPhase = PhaseSample
		}
		if r.Phase != wantPhase {
			t.Errorf("report %d: phase %s, want %s", i, r.Phase, wantPhase)
		}
	}

	// 5. last report per season matches the final state
	for _, r := range reports[len(reports)-cfg.Seasons:] {
		if got := state[r.Season].Best(); got != r.Best {
			t.Errorf("season %d: final best %.2f, last report %.2f", r.Season, got, r.Best)
		}
	}
}

func TestDefaultRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RandSeed = 20240401
	if testing.Short() {
		cfg.Years = 3
	}

	for _, mode := range []SamplingMode{SamplingUniform, SamplingProbe} {
		t.Run(string(mode), func(t *testing.T) {
			t.Parallel()
			c := cfg
			c.Sampling = mode
			field := SyntheticFieldModel(c, c.RandSeed)

			var reports []CycleReport
			sim, err := NewSimulation(c, field, WithCycleHook(func(r CycleReport) {
				reports = append(reports, r)
			}))
			if err != nil {
				t.Fatalf("NewSimulation: %v", err)
			}
			state, err := sim.Run()
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			t.Logf("%s: total=%.2f", mode, state.Total())
			verifyResult(t, c, field, state, reports)
		})
	}
}
