package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SamplingMode selects how unique acres are drawn.
type SamplingMode string

const (
	// SamplingUniform draws uniformly among the free acres.
	SamplingUniform SamplingMode = "uniform"
	// SamplingProbe picks a random start and steps forward to the next free
	// acre. Acres right after taken ones are favoured; kept for parity runs.
	SamplingProbe SamplingMode = "probe"
)

// Config holds the simulation dimensions. Adjust these to change the size of
// the field and the length of the run.
type Config struct {
	// AcreCount is the number of plots available each season.
	AcreCount int `yaml:"acres" json:"acres"`
	// SeedCount is the number of candidate seed varieties.
	SeedCount int `yaml:"seeds" json:"seeds"`
	// Years is how many times every season is visited.
	Years int `yaml:"years" json:"years"`
	// Seasons is the number of seasons per year.
	Seasons int `yaml:"seasons" json:"seasons"`
	// ExperimentsPerSeason is the size of every allocation.
	ExperimentsPerSeason int `yaml:"experimentsPerSeason" json:"experimentsPerSeason"`
	// RandSeed seeds the random source. 0 picks one from the clock.
	RandSeed uint64 `yaml:"randSeed" json:"randSeed"`
	// Sampling selects the unique-acre drawing strategy.
	Sampling SamplingMode `yaml:"sampling" json:"sampling"`
}

// DefaultConfig returns the standard ten-year, four-season setup.
func DefaultConfig() Config {
	return Config{
		AcreCount:            10000,
		SeedCount:            20,
		Years:                10,
		Seasons:              4,
		ExperimentsPerSeason: 50,
		Sampling:             SamplingUniform,
	}
}

// Retained is how many top picks survive each optimisation.
func (c Config) Retained() int {
	return c.ExperimentsPerSeason / 2
}

// Validate reports every problem with c, wrapped in ErrConfig.
func (c Config) Validate() error {
	var errs []error
	if c.AcreCount <= 0 {
		errs = append(errs, fmt.Errorf("acres must be positive, got %d", c.AcreCount))
	}
	if c.SeedCount <= 0 {
		errs = append(errs, fmt.Errorf("seeds must be positive, got %d", c.SeedCount))
	}
	if c.Years < 0 {
		errs = append(errs, fmt.Errorf("years must not be negative, got %d", c.Years))
	}
	if c.Seasons < 0 {
		errs = append(errs, fmt.Errorf("seasons must not be negative, got %d", c.Seasons))
	}
	if c.ExperimentsPerSeason <= 0 {
		errs = append(errs, fmt.Errorf("experimentsPerSeason must be positive, got %d", c.ExperimentsPerSeason))
	} else if c.ExperimentsPerSeason > c.AcreCount {
		errs = append(errs, fmt.Errorf("experimentsPerSeason %d exceeds acres %d", c.ExperimentsPerSeason, c.AcreCount))
	}
	switch c.Sampling {
	case SamplingUniform, SamplingProbe:
	default:
		errs = append(errs, fmt.Errorf("unknown sampling mode %q", c.Sampling))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
}

// withResolvedSeed replaces a zero RandSeed with one taken from the clock so
// the seed actually used can be reported and replayed.
func (c Config) withResolvedSeed() Config {
	if c.RandSeed == 0 {
		c.RandSeed = uint64(time.Now().UnixNano())
	}
	return c
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their default; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
