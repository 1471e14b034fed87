package main

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usedSet(vals ...int) map[int]bool {
	m := make(map[int]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

func TestDrawers_OnlyFreeValues(t *testing.T) {
	for _, mode := range []SamplingMode{SamplingUniform, SamplingProbe} {
		t.Run(string(mode), func(t *testing.T) {
			draw, err := drawerFor(mode)
			require.NoError(t, err)
			rng := newRand(7)

			// sparse: rejection path for uniform
			used := usedSet(0, 2, 4)
			for range 500 {
				v, err := draw(rng, 10, used)
				require.NoError(t, err)
				assert.False(t, used[v], "drew taken value %d", v)
				assert.True(t, v >= 0 && v < 10)
			}

			// dense: only one value left
			used = usedSet(0, 1, 2, 3, 4, 5, 6, 8, 9)
			for range 50 {
				v, err := draw(rng, 10, used)
				require.NoError(t, err)
				assert.Equal(t, 7, v)
			}
		})
	}
}

func TestDrawers_Exhausted(t *testing.T) {
	for _, mode := range []SamplingMode{SamplingUniform, SamplingProbe} {
		t.Run(string(mode), func(t *testing.T) {
			draw, err := drawerFor(mode)
			require.NoError(t, err)
			_, err = draw(newRand(1), 3, usedSet(0, 1, 2))
			assert.ErrorIs(t, err, ErrExhausted)
		})
	}
}

func TestDrawProbe_WrapsToZero(t *testing.T) {
	rng := newRand(3)
	for range 100 {
		v, err := drawProbe(rng, 5, usedSet(1, 2, 3, 4))
		require.NoError(t, err)
		assert.Equal(t, 0, v)
	}
}

func TestDrawUniform_NotBiasedLikeProbe(t *testing.T) {
	// With 0..2 taken, probing lands on 3 from four of six starts; uniform
	// draws split evenly over 3..5.
	const draws = 6000
	used := usedSet(0, 1, 2)

	count := func(draw drawFunc, rng *rand.Rand) map[int]int {
		c := make(map[int]int)
		for range draws {
			v, err := draw(rng, 6, used)
			require.NoError(t, err)
			c[v]++
		}
		return c
	}

	uniform := count(drawUniform, newRand(11))
	for v := 3; v < 6; v++ {
		assert.InDelta(t, draws/3, uniform[v], 300, "uniform count for %d", v)
	}
	probe := count(drawProbe, newRand(11))
	assert.Greater(t, probe[3], 3500)
}

func TestDrawerFor_Unknown(t *testing.T) {
	_, err := drawerFor("shuffle")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestCountTaken(t *testing.T) {
	used := map[int]bool{-1: true, 0: true, 3: false, 4: true, 10: true}
	assert.Equal(t, 2, countTaken(10, used))
	assert.Equal(t, 0, countTaken(10, nil))
}
