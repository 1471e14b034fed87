package main

import (
	"fmt"
	"math/rand/v2"
)

// drawFunc returns a value in [0, n) that is not marked in used.
type drawFunc func(rng *rand.Rand, n int, used map[int]bool) (int, error)

func drawerFor(mode SamplingMode) (drawFunc, error) {
	switch mode {
	case SamplingUniform:
		return drawUniform, nil
	case SamplingProbe:
		return drawProbe, nil
	}
	return nil, fmt.Errorf("%w: unknown sampling mode %q", ErrConfig, mode)
}

// drawUniform picks uniformly among the free values. While at most half the
// range is taken it rejects and redraws (two tries expected); past that it
// walks the free values directly.
func drawUniform(rng *rand.Rand, n int, used map[int]bool) (int, error) {
	taken := countTaken(n, used)
	free := n - taken
	if free <= 0 {
		return 0, fmt.Errorf("%w: all %d values taken", ErrExhausted, n)
	}
	if taken <= n/2 {
		for {
			if v := rng.IntN(n); !used[v] {
				return v, nil
			}
		}
	}
	k := rng.IntN(free)
	for v := 0; v < n; v++ {
		if used[v] {
			continue
		}
		if k == 0 {
			return v, nil
		}
		k--
	}
	return 0, fmt.Errorf("%w: all %d values taken", ErrExhausted, n)
}

// drawProbe starts at a random value and steps forward, wrapping to 0, until
// it finds a free one.
func drawProbe(rng *rand.Rand, n int, used map[int]bool) (int, error) {
	v := rng.IntN(n)
	for range n {
		if !used[v] {
			return v, nil
		}
		v++
		if v >= n {
			v = 0
		}
	}
	return 0, fmt.Errorf("%w: all %d values taken", ErrExhausted, n)
}

// countTaken counts the marked values that fall inside [0, n).
func countTaken(n int, used map[int]bool) int {
	taken := 0
	for v, ok := range used {
		if ok && v >= 0 && v < n {
			taken++
		}
	}
	return taken
}
