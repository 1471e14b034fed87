package main

import (
	"cmp"
	"slices"
)

// Pick is one experiment: a seed planted on an acre and the score it realised.
// The score is fixed when the pick is created and never recomputed.
type Pick struct {
	Seed  int     `json:"seed"`
	Acre  int     `json:"acre"`
	Score float64 `json:"score"`
}

// Allocation is the set of experiments run in one season cycle.
// Acres are pairwise distinct; seeds may repeat.
type Allocation []Pick

// Cycle identifies one year's visit to a season.
type Cycle struct {
	Year   int `json:"year"`
	Season int `json:"season"`
}

// SimState maps a season index to its current allocation. A missing key
// means the season has not been sampled yet.
type SimState map[int]Allocation

// Phase names what a cycle did with its season.
type Phase string

const (
	PhaseSample   Phase = "sample"
	PhaseOptimize Phase = "optimize"
)

// ── Allocation helpers ──────────────────────────────────────────────

// Clone returns a copy that shares no backing array with a.
func (a Allocation) Clone() Allocation {
	if a == nil {
		return nil
	}
	return slices.Clone(a)
}

// Ranked returns a copy of a sorted by score, highest first. Equal scores
// keep their relative order.
func (a Allocation) Ranked() Allocation {
	out := a.Clone()
	slices.SortStableFunc(out, comparePick)
	return out
}

// comparePick sorts high scores to the front.
func comparePick(p1, p2 Pick) int {
	return cmp.Compare(p2.Score, p1.Score)
}

// Acres returns the acre of every pick, in allocation order.
func (a Allocation) Acres() []int {
	out := make([]int, len(a))
	for i, p := range a {
		out[i] = p.Acre
	}
	return out
}

// Total sums the scores.
func (a Allocation) Total() float64 {
	total := 0.0
	for _, p := range a {
		total += p.Score
	}
	return total
}

// Mean returns the average score, or 0 for an empty allocation.
func (a Allocation) Mean() float64 {
	if len(a) == 0 {
		return 0
	}
	return a.Total() / float64(len(a))
}

// Best returns the highest score, or 0 for an empty allocation.
func (a Allocation) Best() float64 {
	if len(a) == 0 {
		return 0
	}
	return slices.MaxFunc(a, func(p1, p2 Pick) int { return cmp.Compare(p1.Score, p2.Score) }).Score
}

// Floor returns the lowest score among the top keep picks: the bar a new
// pick has to clear to survive the next optimisation. It is 0 when nothing
// is kept.
func (a Allocation) Floor(keep int) float64 {
	if keep <= 0 || len(a) == 0 {
		return 0
	}
	ranked := a.Ranked()
	if keep > len(ranked) {
		keep = len(ranked)
	}
	return ranked[keep-1].Score
}

// ── SimState helpers ────────────────────────────────────────────────

// Seasons returns the initialised season indices in ascending order.
func (s SimState) Seasons() []int {
	out := make([]int, 0, len(s))
	for season := range s {
		out = append(out, season)
	}
	slices.Sort(out)
	return out
}

// Total sums the scores of every season's current allocation.
func (s SimState) Total() float64 {
	total := 0.0
	for _, a := range s {
		total += a.Total()
	}
	return total
}
