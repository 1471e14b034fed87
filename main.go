//go:build !lambda

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
)

const usage = `Usage: crop-optimizer [flags]

Simulates a multi-year seed trial: every season keeps its best half of
experiments and replaces the rest with fresh random seed/acre picks.
Without -field a synthetic field is generated from the random seed.

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crop-optimizer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	def := DefaultConfig()
	configPath := fs.String("config", "", "YAML config file (flags override it)")
	fieldPath := fs.String("field", "", "Field model JSON (default: synthetic)")
	jsonOut := fs.Bool("json", false, "Output results as JSON")
	verbose := fs.Bool("verbose", false, "Print every pick of every cycle to stderr")
	picks := fs.Bool("picks", false, "Include the final picks of every season in the output")
	replicates := fs.Int("replicates", 1, "Independent runs with seeds seed, seed+1, ...")
	metricsFile := fs.String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	traceFile := fs.String("trace-file", "", "Write OpenTelemetry spans as JSON to this file")

	acres := fs.Int("acres", def.AcreCount, "Number of acres")
	seeds := fs.Int("seeds", def.SeedCount, "Number of seed varieties")
	years := fs.Int("years", def.Years, "Number of years")
	seasons := fs.Int("seasons", def.Seasons, "Seasons per year")
	experiments := fs.Int("experiments", def.ExperimentsPerSeason, "Experiments per season")
	randSeed := fs.Uint64("seed", 0, "Random seed (0 = from clock)")
	sampling := fs.String("sampling", string(def.Sampling), "Unique acre drawing: uniform or probe")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return 2
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "acres":
			cfg.AcreCount = *acres
		case "seeds":
			cfg.SeedCount = *seeds
		case "years":
			cfg.Years = *years
		case "seasons":
			cfg.Seasons = *seasons
		case "experiments":
			cfg.ExperimentsPerSeason = *experiments
		case "seed":
			cfg.RandSeed = *randSeed
		case "sampling":
			cfg.Sampling = SamplingMode(*sampling)
		}
	})
	cfg = cfg.withResolvedSeed()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *replicates < 1 {
		fmt.Fprintf(stderr, "error: replicates must be at least 1, got %d\n", *replicates)
		return 1
	}

	var field *FieldModel
	if *fieldPath != "" {
		var err error
		if field, err = LoadFieldModel(*fieldPath); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "Loaded field model: %d seeds, %d acres\n", len(field.Seeds), len(field.Soil))
	}

	if *traceFile != "" {
		shutdown, err := initTracing(*traceFile)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
			}
		}()
	}

	opts := runOptions{log: stderr, verbose: *verbose, picks: *picks}
	if *metricsFile != "" {
		opts.metrics = NewMetrics()
	}

	var code int
	if *replicates == 1 {
		code = runSingle(cfg, field, opts, *jsonOut, stdout, stderr)
	} else {
		code = runAll(cfg, field, *replicates, opts, *jsonOut, stdout, stderr)
	}

	if opts.metrics != nil {
		if err := opts.metrics.WriteFile(*metricsFile); err != nil {
			fmt.Fprintf(stderr, "error: write metrics: %v\n", err)
			code = 1
		}
	}
	return code
}

func runSingle(cfg Config, field *FieldModel, opts runOptions, jsonOut bool, stdout, stderr io.Writer) int {
	r, err := runSimulation(cfg, field, opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.Encode(r)
	} else {
		fmt.Fprint(stdout, FormatReport(r))
	}
	return 0
}

func runAll(cfg Config, field *FieldModel, n int, opts runOptions, jsonOut bool, stdout, stderr io.Writer) int {
	reports, err := runReplicates(cfg, field, n, opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.Encode(reports)
	} else {
		fmt.Fprint(stdout, FormatReplicates(reports))
	}
	return 0
}
