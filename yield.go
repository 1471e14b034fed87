package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// YieldOracle scores an experiment. Implementations must be synchronous and
// free of side effects visible to the optimiser.
type YieldOracle interface {
	Yield(seed, acre int, c Cycle) (float64, error)
}

// OracleFunc adapts a plain function to YieldOracle.
type OracleFunc func(seed, acre int, c Cycle) (float64, error)

// Yield calls f.
func (f OracleFunc) Yield(seed, acre int, c Cycle) (float64, error) {
	return f(seed, acre, c)
}

// ── Field model ─────────────────────────────────────────────────────

// SeedProfile describes one seed variety.
type SeedProfile struct {
	Name      string  `json:"name"`
	BaseYield float64 `json:"yield"` // bushels per acre on average soil
	Price     float64 `json:"price"` // revenue per bushel
}

// FieldModel is the default yield oracle. Revenue for a pick is
//
//	price * baseYield * soil[acre] * seasonFactor[season] * (1 + noise)
//
// where noise is a deterministic value in [-Noise, Noise] derived from the
// seed, acre, season and year. Seasons past the end of SeasonFactor use 1.
type FieldModel struct {
	Seeds        []SeedProfile
	Soil         []float64
	SeasonFactor []float64
	Noise        float64
}

// Yield implements YieldOracle.
func (f *FieldModel) Yield(seed, acre int, c Cycle) (float64, error) {
	if seed < 0 || seed >= len(f.Seeds) {
		return 0, fmt.Errorf("seed %d outside field model (%d seeds)", seed, len(f.Seeds))
	}
	if acre < 0 || acre >= len(f.Soil) {
		return 0, fmt.Errorf("acre %d outside field model (%d acres)", acre, len(f.Soil))
	}
	sf := 1.0
	if c.Season >= 0 && c.Season < len(f.SeasonFactor) {
		sf = f.SeasonFactor[c.Season]
	}
	p := &f.Seeds[seed]
	v := p.Price * p.BaseYield * f.Soil[acre] * sf * (1 + f.noise(seed, acre, c))
	return toFixed2(v), nil
}

func (f *FieldModel) noise(seed, acre int, c Cycle) float64 {
	if f.Noise == 0 {
		return 0
	}
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(acre))
	binary.LittleEndian.PutUint64(buf[16:], uint64(c.Season))
	binary.LittleEndian.PutUint64(buf[24:], uint64(c.Year))
	u := float64(xxhash.Sum64(buf[:])>>11) / (1 << 53) // [0, 1)
	return (2*u - 1) * f.Noise
}

// Check reports whether the model covers every seed and acre cfg can draw.
func (f *FieldModel) Check(cfg Config) error {
	if len(f.Seeds) < cfg.SeedCount {
		return fmt.Errorf("%w: field model has %d seeds, config needs %d", ErrConfig, len(f.Seeds), cfg.SeedCount)
	}
	if len(f.Soil) < cfg.AcreCount {
		return fmt.Errorf("%w: field model has %d acres, config needs %d", ErrConfig, len(f.Soil), cfg.AcreCount)
	}
	return nil
}

var defaultSeasonFactor = []float64{0.9, 1.2, 1.0, 0.6}

// SyntheticFieldModel builds a reproducible random field sized for cfg.
func SyntheticFieldModel(cfg Config, seed uint64) *FieldModel {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	seeds := make([]SeedProfile, cfg.SeedCount)
	for i := range seeds {
		seeds[i] = SeedProfile{
			Name:      fmt.Sprintf("seed-%02d", i),
			BaseYield: toFixed2(80 + 120*rng.Float64()),
			Price:     toFixed2(3 + 12*rng.Float64()),
		}
	}
	soil := make([]float64, cfg.AcreCount)
	for i := range soil {
		soil[i] = toFixed2(0.5 + rng.Float64())
	}
	sf := make([]float64, cfg.Seasons)
	for i := range sf {
		sf[i] = defaultSeasonFactor[i%len(defaultSeasonFactor)]
	}
	return &FieldModel{Seeds: seeds, Soil: soil, SeasonFactor: sf, Noise: 0.1}
}

func toFixed2(v float64) float64 {
	return math.Round(v*100) / 100
}
