// Package sweep runs the fire model headless over a grid of weather settings
// and seeds, and aggregates how much of the forest each setting burns.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"wildfire-ca/internal/sims/forestfire"
	"wildfire-ca/internal/telemetry"
)

// ErrNoScenarios is returned when the parameter grid is empty.
var ErrNoScenarios = errors.New("sweep has no scenarios")

// Point addresses a grid cell.
type Point struct {
	Row, Col int
}

// Plan describes a sweep.
type Plan struct {
	// Base supplies every parameter not varied by the sweep.
	Base forestfire.Config

	Humidities    []float64
	WindStrengths []float64
	Seeds         []int64

	Steps   int
	Workers int

	// Ignite lists cells set on fire before the first step. Empty means the
	// centre of the grid.
	Ignite []Point
}

// DefaultPlan sweeps humidity and wind strength over a quiet 96x96 forest:
// no regrowth and no lightning, so the only fire is the one lit at start.
func DefaultPlan() Plan {
	base := forestfire.DefaultConfig()
	base.Width, base.Height = 96, 96
	base.Growth = 0
	base.LightningEnabled = false
	base.WindEnabled = true
	return Plan{
		Base:          base,
		Humidities:    []float64{0, 0.2, 0.4, 0.6},
		WindStrengths: []float64{0, 0.5, 1},
		Seeds:         []int64{1, 2, 3, 4},
		Steps:         200,
		Workers:       runtime.NumCPU(),
	}
}

// Scenario is one run of the sweep.
type Scenario struct {
	Humidity     float64
	WindStrength float64
	Seed         int64
}

// Config returns the engine configuration for the scenario.
func (s Scenario) Config(base forestfire.Config) forestfire.Config {
	cfg := base
	cfg.Humidity = s.Humidity
	cfg.WindStrength = s.WindStrength
	cfg.Seed = forestfire.SeedValue(s.Seed)
	return cfg
}

// Result is the outcome of a single scenario.
type Result struct {
	Scenario
	Summary telemetry.Summary

	InitialVegetation int
	// BurnedFraction is the share of the initial vegetation that caught fire.
	// With regrowth enabled it can exceed 1.
	BurnedFraction float64
	// BurnoutStep is the step at which no cell was burning any more, or -1 if
	// the fire was still alive when the run ended.
	BurnoutStep int
}

// Scenarios expands the plan into its runs, ordered by humidity, then wind
// strength, then seed.
func (p Plan) Scenarios() []Scenario {
	var out []Scenario
	for _, h := range p.Humidities {
		for _, s := range p.WindStrengths {
			for _, seed := range p.Seeds {
				out = append(out, Scenario{Humidity: h, WindStrength: s, Seed: seed})
			}
		}
	}
	return out
}

// Run executes every scenario of the plan on a bounded pool of workers. It
// stops early when ctx is cancelled. Results come back in scenario order.
func Run(ctx context.Context, p Plan) ([]Result, error) {
	scenarios := p.Scenarios()
	if len(scenarios) == 0 {
		return nil, ErrNoScenarios
	}
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sc := range scenarios {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := RunScenario(ctx, p.Base, sc, p.Steps, p.Ignite)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunScenario runs one scenario for the given number of steps, stopping
// early once the fire has burnt out and nothing can relight it.
func RunScenario(ctx context.Context, base forestfire.Config, sc Scenario, steps int, ignite []Point) (Result, error) {
	cfg := sc.Config(base)
	e, err := forestfire.New(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %+v: %w", sc, err)
	}

	start := e.Grid()
	res := Result{
		Scenario:          sc,
		InitialVegetation: start.Census().Vegetation(),
		BurnoutStep:       -1,
	}

	if len(ignite) == 0 {
		ignite = []Point{{Row: cfg.Height / 2, Col: cfg.Width / 2}}
	}
	for _, pt := range ignite {
		e.Ignite(pt.Row, pt.Col)
	}
	prev := start
	lit := e.Grid()
	res.Summary.TotalIgnite += telemetry.Collect(lit, prev).Ignited
	prev = lit

	quiet := cfg.Growth <= 0 && (!cfg.LightningEnabled || cfg.Lightning <= 0)
	for i := 0; i < steps; i++ {
		if i%16 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		cur := e.Step()
		stats := telemetry.Collect(cur, prev)
		res.Summary.Add(stats)
		prev = cur
		if stats.Burning == 0 && res.BurnoutStep < 0 {
			res.BurnoutStep = stats.Step
			if quiet {
				break
			}
		}
	}

	if res.InitialVegetation > 0 {
		res.BurnedFraction = float64(res.Summary.TotalIgnite) / float64(res.InitialVegetation)
	}
	return res, nil
}

// Sorted returns a copy of results ordered by burned fraction, largest first.
func Sorted(results []Result) []Result {
	out := append([]Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BurnedFraction > out[j].BurnedFraction
	})
	return out
}
