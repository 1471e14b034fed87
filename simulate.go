package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CycleReport summarises one season cycle.
type CycleReport struct {
	Cycle
	Phase    Phase   `json:"phase"`
	Best     float64 `json:"best"`
	Mean     float64 `json:"mean"`
	Floor    float64 `json:"floor"`    // lowest score the next optimisation keeps
	Explored int     `json:"explored"` // picks drawn fresh this cycle
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLog sends progress lines to w. verbose adds every pick of every cycle.
func WithLog(w io.Writer, verbose bool) Option {
	return func(s *Simulation) {
		s.log = w
		s.verbose = verbose
	}
}

// WithRand replaces the random source derived from Config.RandSeed.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

// WithMetrics records oracle calls and cycle results in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Simulation) { s.metrics = m }
}

// WithTracer replaces the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Simulation) { s.tracer = t }
}

// WithCycleHook calls fn after every completed cycle.
func WithCycleHook(fn func(CycleReport)) Option {
	return func(s *Simulation) { s.onCycle = fn }
}

// ── Simulation ──────────────────────────────────────────────────────

// Simulation runs every season through Years cycles: the first visit samples
// a fresh allocation, every later visit optimises the previous one. Seasons
// evolve independently.
type Simulation struct {
	cfg       Config
	rng       *rand.Rand
	sampler   *Sampler
	optimizer *SeasonOptimizer
	state     SimState

	log     io.Writer
	verbose bool
	metrics *Metrics
	tracer  trace.Tracer
	onCycle func(CycleReport)
}

// NewSimulation validates cfg and wires the sampler and optimizer around
// oracle. A zero RandSeed is replaced by one taken from the clock; Config()
// reports the seed actually used.
func NewSimulation(cfg Config, oracle YieldOracle, opts ...Option) (*Simulation, error) {
	cfg = cfg.withResolvedSeed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if oracle == nil {
		return nil, fmt.Errorf("%w: no yield oracle", ErrConfig)
	}

	s := &Simulation{cfg: cfg, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = newRand(cfg.RandSeed)
	}

	sampler, err := NewSampler(cfg, s.rng, s.metrics.instrument(oracle))
	if err != nil {
		return nil, err
	}
	s.sampler = sampler
	s.optimizer = NewSeasonOptimizer(cfg, sampler)
	return s, nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
}

// Config returns the configuration the simulation runs with.
func (s *Simulation) Config() Config { return s.cfg }

// Run visits every season of every year, year-major, and returns the final
// allocation of each season. Each call starts from an empty state.
func (s *Simulation) Run() (SimState, error) {
	ctx, span := s.tracer.Start(context.Background(), "simulation.run", trace.WithAttributes(
		attribute.Int("acres", s.cfg.AcreCount),
		attribute.Int("seeds", s.cfg.SeedCount),
		attribute.Int("years", s.cfg.Years),
		attribute.Int("seasons", s.cfg.Seasons),
		attribute.Int("experiments", s.cfg.ExperimentsPerSeason),
		attribute.String("sampling", string(s.cfg.Sampling)),
		attribute.Int64("rand_seed", int64(s.cfg.RandSeed)),
	))
	defer span.End()

	start := time.Now()
	s.state = make(SimState, s.cfg.Seasons)
	s.logf("[init] acres=%d, seeds=%d, years=%d, seasons=%d, experiments=%d, sampling=%s, seed=%d\n",
		s.cfg.AcreCount, s.cfg.SeedCount, s.cfg.Years, s.cfg.Seasons,
		s.cfg.ExperimentsPerSeason, s.cfg.Sampling, s.cfg.RandSeed)

	for year := 0; year < s.cfg.Years; year++ {
		for season := 0; season < s.cfg.Seasons; season++ {
			if err := s.step(ctx, Cycle{Year: year, Season: season}); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				s.logf("[error] %v\n", err)
				return nil, err
			}
		}
	}

	state := s.state
	span.SetAttributes(attribute.Float64("total", state.Total()))
	s.logf("[done] total=%.2f, elapsed=%v\n", state.Total(), time.Since(start))
	return state, nil
}

func (s *Simulation) step(ctx context.Context, c Cycle) error {
	_, span := s.tracer.Start(ctx, "simulation.cycle", trace.WithAttributes(
		attribute.Int("year", c.Year),
		attribute.Int("season", c.Season),
	))
	defer span.End()

	var (
		next     Allocation
		phase    Phase
		explored int
		err      error
	)
	if prev, ok := s.state[c.Season]; !ok {
		phase = PhaseSample
		next, err = s.sampler.Generate(nil, c)
		explored = len(next)
	} else {
		phase = PhaseOptimize
		next, err = s.optimizer.Optimize(prev, c)
		explored = len(next) - s.cfg.Retained()
	}
	span.SetAttributes(attribute.String("phase", string(phase)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("year %d season %d %s: %w", c.Year, c.Season, phase, err)
	}
	s.state[c.Season] = next

	r := CycleReport{
		Cycle:    c,
		Phase:    phase,
		Best:     next.Best(),
		Mean:     next.Mean(),
		Floor:    next.Floor(s.cfg.Retained()),
		Explored: explored,
	}
	span.SetAttributes(
		attribute.Float64("best", r.Best),
		attribute.Float64("floor", r.Floor),
	)
	s.metrics.observeCycle(r)

	s.logf("[cycle] year=%d, season=%d, phase=%s, best=%.2f, mean=%.2f, floor=%.2f\n",
		c.Year, c.Season, phase, r.Best, r.Mean, r.Floor)
	if s.verbose && s.log != nil {
		for i, p := range next.Ranked() {
			fmt.Fprintf(s.log, "[verbose] year=%d, season=%d, #%d seed=%d acre=%d score=%.2f\n",
				c.Year, c.Season, i, p.Seed, p.Acre, p.Score)
		}
	}
	if s.onCycle != nil {
		s.onCycle(r)
	}
	return nil
}

func (s *Simulation) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	fmt.Fprintf(s.log, format, args...)
}
