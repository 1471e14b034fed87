package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(t *testing.T, cfg Config, oracle YieldOracle) *Sampler {
	t.Helper()
	s, err := NewSampler(cfg, newRand(cfg.RandSeed), oracle)
	require.NoError(t, err)
	return s
}

func TestGenerate_Invariants(t *testing.T) {
	for _, mode := range []SamplingMode{SamplingUniform, SamplingProbe} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := testConfig(200, 5, 1, 1, 50)
			cfg.Sampling = mode
			s := newTestSampler(t, cfg, acreOracle)
			for i := range 20 {
				a, err := s.Generate(nil, Cycle{Year: i})
				require.NoError(t, err)
				checkAllocation(t, cfg, a)
				for _, p := range a {
					assert.Equal(t, float64(p.Acre), p.Score)
				}
			}
		})
	}
}

func TestGenerate_UsesEveryAcreWhenFull(t *testing.T) {
	cfg := testConfig(4, 2, 1, 1, 4)
	s := newTestSampler(t, cfg, acreOracle)
	a, err := s.Generate(nil, Cycle{})
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true, 3: true}, acreSet(a))
}

func TestGenerate_RespectsExcluded(t *testing.T) {
	cfg := testConfig(10, 3, 1, 1, 5)
	s := newTestSampler(t, cfg, acreOracle)
	excluded := usedSet(0, 1, 2, 3, 4)

	a, err := s.Generate(excluded, Cycle{})
	require.NoError(t, err)
	assert.Equal(t, usedSet(5, 6, 7, 8, 9), acreSet(a))
	assert.Equal(t, usedSet(0, 1, 2, 3, 4), excluded, "excluded set must not change")
}

func TestGenerate_NotEnoughFreeAcres(t *testing.T) {
	cfg := testConfig(10, 3, 1, 1, 5)
	oracle := &recordingOracle{}
	s := newTestSampler(t, cfg, oracle)

	_, err := s.Generate(usedSet(0, 1, 2, 3, 4, 5), Cycle{})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Empty(t, oracle.calls, "nothing may be scored once the precondition fails")
}

func TestGenerate_SeedsRepeat(t *testing.T) {
	cfg := testConfig(100, 1, 1, 1, 30)
	s := newTestSampler(t, cfg, acreOracle)
	a, err := s.Generate(nil, Cycle{})
	require.NoError(t, err)
	for _, p := range a {
		assert.Equal(t, 0, p.Seed)
	}
}

func TestGenerate_ForwardsCycle(t *testing.T) {
	cfg := testConfig(20, 2, 1, 1, 3)
	oracle := &recordingOracle{}
	s := newTestSampler(t, cfg, oracle)
	c := Cycle{Year: 4, Season: 2}
	_, err := s.Generate(nil, c)
	require.NoError(t, err)
	assert.Equal(t, []Cycle{c, c, c}, oracle.calls)
}

func TestGenerate_OracleFailure(t *testing.T) {
	cfg := testConfig(20, 2, 1, 1, 5)
	oracle := &recordingOracle{failAt: 2}
	s := newTestSampler(t, cfg, oracle)

	a, err := s.Generate(nil, Cycle{Year: 1, Season: 3})
	assert.Nil(t, a)
	require.ErrorIs(t, err, ErrOracle)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "year 1 season 3")
	assert.Len(t, oracle.calls, 2, "no retry after a failure")
}

func TestGenerate_NonFiniteScore(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		cfg := testConfig(20, 2, 1, 1, 2)
		s := newTestSampler(t, cfg, OracleFunc(func(int, int, Cycle) (float64, error) { return v, nil }))
		_, err := s.Generate(nil, Cycle{})
		assert.ErrorIs(t, err, ErrOracle)
	}
}

func TestDraw_MarksAcreUsed(t *testing.T) {
	cfg := testConfig(3, 2, 1, 1, 1)
	s := newTestSampler(t, cfg, acreOracle)
	used := map[int]bool{}
	for range 3 {
		_, err := s.Draw(used, Cycle{})
		require.NoError(t, err)
	}
	assert.Equal(t, usedSet(0, 1, 2), used)
	_, err := s.Draw(used, Cycle{})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestNewSampler_Rejects(t *testing.T) {
	_, err := NewSampler(testConfig(3, 2, 1, 1, 4), newRand(1), acreOracle)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewSampler(testConfig(10, 2, 1, 1, 4), nil, acreOracle)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewSampler(testConfig(10, 2, 1, 1, 4), newRand(1), nil)
	assert.ErrorIs(t, err, ErrConfig)
}
