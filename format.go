package main

import (
	"fmt"
	"strings"
	"time"
)

// SeasonSummary describes a season's final allocation.
type SeasonSummary struct {
	Season  int        `json:"season"`
	Best    float64    `json:"best"`
	Mean    float64    `json:"mean"`
	Floor   float64    `json:"floor"`
	Total   float64    `json:"total"`
	TopSeed int        `json:"topSeed"` // most frequent seed among the retained picks
	Picks   Allocation `json:"picks,omitempty"`
}

// RunReport is the JSON-serializable result of one simulation run.
type RunReport struct {
	RunID   string          `json:"runId"`
	Date    string          `json:"date"`
	Config  Config          `json:"config"`
	Seasons []SeasonSummary `json:"seasons"`
	Total   float64         `json:"total"`
	TimeMs  int64           `json:"timeMs"`
}

// BuildReport summarises a finished run. withPicks keeps every pick, ranked.
func BuildReport(runID string, cfg Config, state SimState, elapsed time.Duration, withPicks bool) RunReport {
	r := RunReport{
		RunID:  runID,
		Date:   time.Now().UTC().Format(time.RFC3339),
		Config: cfg,
		Total:  toFixed2(state.Total()),
		TimeMs: elapsed.Milliseconds(),
	}
	keep := cfg.Retained()
	for _, season := range state.Seasons() {
		a := state[season]
		ranked := a.Ranked()
		ss := SeasonSummary{
			Season:  season,
			Best:    a.Best(),
			Mean:    toFixed2(a.Mean()),
			Floor:   a.Floor(keep),
			Total:   toFixed2(a.Total()),
			TopSeed: topSeed(ranked[:min(max(keep, 1), len(ranked))]),
		}
		if withPicks {
			ss.Picks = ranked
		}
		r.Seasons = append(r.Seasons, ss)
	}
	return r
}

// topSeed returns the seed planted most often in a, preferring the lower
// index on ties, or -1 for an empty allocation.
func topSeed(a Allocation) int {
	counts := make(map[int]int)
	best, bestCount := -1, 0
	for _, p := range a {
		counts[p.Seed]++
	}
	for seed, n := range counts {
		if n > bestCount || (n == bestCount && seed < best) {
			best, bestCount = seed, n
		}
	}
	return best
}

// FormatReport renders a run as a plain-text table.
func FormatReport(r RunReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s (seed=%d, sampling=%s)\n", r.RunID, r.Config.RandSeed, r.Config.Sampling)
	fmt.Fprintf(&b, "%-8s %12s %12s %12s %14s %8s\n", "Season", "Best", "Mean", "Floor", "Total", "TopSeed")
	fmt.Fprintf(&b, "%-8s %12s %12s %12s %14s %8s\n", "--------", "------------", "------------", "------------", "--------------", "--------")
	for _, s := range r.Seasons {
		fmt.Fprintf(&b, "%-8d %12.2f %12.2f %12.2f %14.2f %8d\n", s.Season, s.Best, s.Mean, s.Floor, s.Total, s.TopSeed)
	}
	fmt.Fprintf(&b, "%-8s %12s %12s %12s %14s %8s\n", "--------", "------------", "------------", "------------", "--------------", "--------")
	fmt.Fprintf(&b, "%-8s %12s %12s %12s %14.2f %7.1fs\n", "TOTAL", "", "", "", r.Total, float64(r.TimeMs)/1000)

	for _, s := range r.Seasons {
		if len(s.Picks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\nSeason %d picks:\n", s.Season)
		for i, p := range s.Picks {
			fmt.Fprintf(&b, "  #%-3d seed=%-3d acre=%-6d score=%.2f\n", i, p.Seed, p.Acre, p.Score)
		}
	}
	return b.String()
}

// FormatReplicates renders one row per replicate run plus the spread of totals.
func FormatReplicates(reports []RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %22s %14s %8s\n", "Replicate", "Seed", "Total", "Time")
	fmt.Fprintf(&b, "%-10s %22s %14s %8s\n", "----------", "----------------------", "--------------", "--------")
	lo, hi, sum := 0.0, 0.0, 0.0
	for i, r := range reports {
		fmt.Fprintf(&b, "%-10d %22d %14.2f %7.1fs\n", i, r.Config.RandSeed, r.Total, float64(r.TimeMs)/1000)
		if i == 0 || r.Total < lo {
			lo = r.Total
		}
		if i == 0 || r.Total > hi {
			hi = r.Total
		}
		sum += r.Total
	}
	if len(reports) > 0 {
		fmt.Fprintf(&b, "%-10s %22s %14s %8s\n", "----------", "----------------------", "--------------", "--------")
		fmt.Fprintf(&b, "min=%.2f  mean=%.2f  max=%.2f\n", lo, sum/float64(len(reports)), hi)
	}
	return b.String()
}
