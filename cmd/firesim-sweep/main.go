// Command firesim-sweep measures how much of the forest burns across a grid of
// humidity and wind strength settings, several seeds per setting.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"wildfire-ca/internal/app"
	"wildfire-ca/internal/sweep"
)

type floatList []float64

func (l *floatList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Set replaces the defaults with a comma-separated list.
func (l *floatList) Set(value string) error {
	var out []float64
	for _, part := range strings.Split(value, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

func main() {
	plan := sweep.DefaultPlan()

	var overrides app.KVList
	configPath := flag.String("config", "", "YAML file with the base simulation parameters")
	flag.Var(&overrides, "set", "base parameter override in key=value form (repeatable)")
	humidity := floatList(plan.Humidities)
	wind := floatList(plan.WindStrengths)
	flag.Var(&humidity, "humidity", "comma-separated humidity values")
	flag.Var(&wind, "wind", "comma-separated wind strength values")
	seeds := flag.Int("seeds", len(plan.Seeds), "runs per setting (seeds 1..N)")
	steps := flag.Int("steps", plan.Steps, "maximum steps per run")
	workers := flag.Int("workers", runtime.NumCPU(), "number of parallel runs")
	csvPath := flag.String("csv", "", "write one row per run to this CSV file")
	timeout := flag.Duration("timeout", 0, "abort the sweep after this long (0 means no limit)")
	flag.Parse()

	if *configPath != "" || len(overrides) > 0 {
		cfg := app.NewConfig()
		cfg.ConfigPath = *configPath
		cfg.Overrides = overrides
		base, err := cfg.SimConfig()
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		plan.Base = base
	}
	plan.Humidities = humidity
	plan.WindStrengths = wind
	plan.Seeds = plan.Seeds[:0]
	for s := 1; s <= *seeds; s++ {
		plan.Seeds = append(plan.Seeds, int64(s))
	}
	plan.Steps = *steps
	plan.Workers = *workers

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	slog.Info("sweeping",
		"runs", len(plan.Scenarios()),
		"workers", plan.Workers,
		"steps", plan.Steps,
		"size", fmt.Sprintf("%dx%d", plan.Base.Width, plan.Base.Height))
	start := time.Now()
	results, err := sweep.Run(ctx, plan)
	if err != nil {
		log.Fatalf("sweep: %v", err)
	}
	slog.Info("sweep finished", "elapsed", time.Since(start).Round(time.Millisecond))

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatalf("csv: %v", err)
		}
		if err := sweep.WriteCSV(f, results); err != nil {
			log.Fatalf("csv: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("csv: %v", err)
		}
	}

	if err := sweep.WriteTable(os.Stdout, sweep.Summarize(results)); err != nil {
		log.Fatal(err)
	}
	if top := sweep.Sorted(results); len(top) > 0 {
		best := top[0]
		fmt.Printf("\nLargest fire: humidity=%.2f wind=%.2f seed=%d burned=%.3f peak=%d\n",
			best.Humidity, best.WindStrength, best.Seed, best.BurnedFraction, best.Summary.PeakBurning)
	}
}
